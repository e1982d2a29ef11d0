package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"bsend/internal/wire"
)

func genkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genkey",
		Short: "Print a base64-encoded random 32-byte key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, wire.KeySize)
			if _, err := rand.Read(key); err != nil {
				return fmt.Errorf("genkey: %w", err)
			}
			fmt.Println(base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
