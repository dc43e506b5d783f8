package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tungsten/pkg/bus"
	"tungsten/pkg/channels"
	"tungsten/pkg/components"
	"tungsten/pkg/config"
	"tungsten/pkg/logger"
	"tungsten/pkg/server"
)

const demoShutdownTimeout = 5 * time.Second

func demoCmd() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: tungsten demo <discord|telegram> <channel-or-chat-id>")
		os.Exit(1)
	}
	platform, target := os.Args[2], os.Args[3]

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		fmt.Println("✗ Config validation failed:")
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	hub := bus.NewHub()
	defer hub.Close()

	manager, err := channels.NewManager(cfg, hub)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	transport, ok := manager.GetChannel(platform)
	if !ok {
		fmt.Printf("Error: channel %q is not enabled (try: tungsten config set channels.%s.enabled true)\n", platform, platform)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.StartAll(ctx); err != nil {
		fmt.Printf("Error starting channels: %v\n", err)
		os.Exit(1)
	}
	err = runDemo(ctx, cfg, transport, target)

	stopCtx, cancel := context.WithTimeout(context.Background(), demoShutdownTimeout)
	defer cancel()
	if stopErr := manager.StopAll(stopCtx); stopErr != nil {
		logger.WarnCF("demo", "Channel shutdown failed", map[string]interface{}{
			logger.FieldError: stopErr.Error(),
		})
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Demo failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Demo session finished")
}

// runDemo posts the board to target and serves it until the session ends.
// The status server is shut down afterwards.
func runDemo(ctx context.Context, cfg *config.Config, transport channels.Channel, target string) error {
	b := newBoard()
	session, err := components.NewSession(transport, components.Options{
		Timeout:          cfg.SessionTimeout(),
		AllowedIDs:       cfg.Components.AllowFrom,
		ClickLimit:       cfg.Components.ClickLimit,
		Buttons:          b.buttons,
		Menu:             b.menu,
		Hooks:            b.hooks(),
		TimeoutNotice:    cfg.Components.TimeoutNotice,
		NotAllowedNotice: cfg.Components.NotAllowedNotice,
	})
	if err != nil {
		return err
	}

	msg, err := transport.Send(ctx, target, b.content(), session.Build())
	if err != nil {
		return err
	}
	logger.InfoCF("demo", "Demo board posted", map[string]interface{}{
		logger.FieldChannelID: msg.ChannelID,
		logger.FieldMessageID: msg.ID,
	})

	status := server.NewServer(cfg, sessionStatus(session))
	if err := status.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return session.Run(gctx, msg)
	})
	g.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), demoShutdownTimeout)
		defer cancel()
		return status.Stop(stopCtx)
	})
	return g.Wait()
}
