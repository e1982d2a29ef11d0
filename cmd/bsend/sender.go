package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bsend/internal/config"
	"bsend/internal/logging"
	"bsend/internal/session"
	"bsend/internal/transport"
)

func senderCmd() *cobra.Command {
	var (
		keyB64      string
		logLevel    string
		logFormat   string
		idleTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sender <addr>",
		Short: "Connect to a receiver and stream standard input to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.DecodeKey(keyB64)
			if err != nil {
				return err
			}
			cfg := config.Config{
				Address:     args[0],
				Key:         key,
				LogLevel:    logLevel,
				LogFormat:   logFormat,
				IdleTimeout: idleTimeout,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			log.Info("connecting", logging.KeySessionRole, "sender", logging.KeyAddress, cfg.Address)
			conn, err := transport.Connect(ctx, cfg.Address, cfg.IdleTimeout)
			if err != nil {
				return fmt.Errorf("sender: %w", err)
			}

			if err := session.NewSender(conn, cfg.Key, log).Run(os.Stdin); err != nil {
				return fmt.Errorf("sender: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keyB64, "key", "", "base64-encoded 32-byte pre-shared key (required)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", config.DefaultIdleTimeout, "transport idle timeout")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
