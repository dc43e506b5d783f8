// Tungsten - interactive message components for chat bots
// License: MIT

package main

import (
	"fmt"
	"os"

	"tungsten/pkg/config"
	"tungsten/pkg/logger"
)

const version = "0.1.0"
const logo = "🔩"

var globalConfigPathOverride string

func main() {
	globalConfigPathOverride = detectConfigPathFromArgs(os.Args)

	for _, arg := range os.Args {
		if arg == "--debug" || arg == "-d" {
			config.SetDebugMode(true)
			logger.SetLevel(logger.DEBUG)
			break
		}
	}

	os.Args = normalizeCLIArgs(os.Args)

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "demo":
		demoCmd()
	case "config":
		configCmd()
	case "version", "--version", "-v":
		fmt.Printf("%s tungsten v%s\n", logo, version)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}
