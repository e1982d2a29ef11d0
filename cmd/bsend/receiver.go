package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bsend/internal/certutil"
	"bsend/internal/config"
	"bsend/internal/logging"
	"bsend/internal/session"
	"bsend/internal/transport"
)

func receiverCmd() *cobra.Command {
	var (
		keyB64      string
		logLevel    string
		logFormat   string
		idleTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "receiver <addr>",
		Short: "Bind an address, accept one sender, and stream it to standard output",
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

			cert, err := certutil.GenerateSelfSigned("bsend-receiver")
			if err != nil {
				return fmt.Errorf("receiver: %w", err)
			}

			log.Info("listening", logging.KeySessionRole, "receiver", logging.KeyAddress, cfg.Address)
			conn, err := transport.BindAndAccept(ctx, cfg.Address, cert, cfg.IdleTimeout)
			if err != nil {
				return fmt.Errorf("receiver: %w", err)
			}

			if err := session.NewReceiver(conn, cfg.Key, log).Run(os.Stdout); err != nil {
				return fmt.Errorf("receiver: %w", err)
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
