// Package main provides the CLI entry point for bsend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bsend",
		Short: "bsend transfers a byte stream between two hosts over an encrypted session",
		Long: `bsend is a one-shot, one-way file transfer tool. A receiver binds an
address and waits; a sender connects, reads standard input, and streams
it to the receiver's standard output, authenticated and encrypted with
a pre-shared key.`,
	}

	rootCmd.AddCommand(genkeyCmd())
	rootCmd.AddCommand(senderCmd())
	rootCmd.AddCommand(receiverCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
