package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"tungsten/pkg/config"
	"tungsten/pkg/configops"
)

func configCmd() {
	if len(os.Args) < 3 {
		configHelp()
		return
	}

	switch os.Args[2] {
	case "set":
		configSetCmd()
	case "get":
		configGetCmd()
	case "check":
		configCheckCmd()
	default:
		fmt.Printf("Unknown config command: %s\n", os.Args[2])
		configHelp()
	}
}

func configHelp() {
	fmt.Println("\nConfig commands:")
	fmt.Println("  set <path> <value>     Set config value (validated before writing)")
	fmt.Println("  get <path>             Get config value")
	fmt.Println("  check                  Validate current config")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tungsten config set channels.discord.enable true")
	fmt.Println("  tungsten config set components.click_limit 5")
	fmt.Println(`  tungsten config set components.allow_from '["1234"]'`)
	fmt.Println("  tungsten config get components.timeout_sec")
	fmt.Println("  tungsten config check")
}

func configSetCmd() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: tungsten config set <path> <value>")
		return
	}

	configPath := getConfigPath()
	doc, err := configops.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	path := configops.NormalizePath(os.Args[3])
	value := configops.ParseValue(strings.Join(os.Args[4:], " "))
	if err := doc.Set(path, value); err != nil {
		fmt.Printf("Error setting value: %v\n", err)
		return
	}
	if err := doc.Check(); err != nil {
		fmt.Printf("✗ Rejected %s: %v\n", path, err)
		return
	}

	backupPath, err := doc.Save(configPath)
	if err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	fmt.Printf("✓ Updated %s = %v\n", path, value)
	if backupPath != "" {
		fmt.Printf("  previous config saved to %s\n", backupPath)
	}
}

func configGetCmd() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: tungsten config get <path>")
		return
	}

	doc, err := configops.Load(getConfigPath())
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	path := configops.NormalizePath(os.Args[3])
	value, ok := doc.Get(path)
	if !ok {
		fmt.Printf("Path not found: %s\n", path)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		fmt.Printf("%v\n", value)
		return
	}
	fmt.Println(string(data))
}

func configCheckCmd() {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		fmt.Printf("Config load failed: %v\n", err)
		return
	}
	validationErrors := config.Validate(cfg)
	if len(validationErrors) == 0 {
		fmt.Println("✓ Config validation passed")
		return
	}

	fmt.Println("✗ Config validation failed:")
	for _, ve := range validationErrors {
		fmt.Printf("  - %v\n", ve)
	}
}
