// Package main is the entry point for the aigate CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Set by ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "aigate",
		Short:         "Route AI requests across providers with key rotation and fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.bindFlags(root)
	root.AddCommand(
		versionCmd(),
		configCmd(a),
		completeCmd(a),
		streamCmd(a),
		extractCmd(a),
		embedCmd(a),
		imageCmd(a),
		transcribeCmd(a),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("aigate %s (commit: %s)\n", version, commit)
		},
	}
}
