package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	cfgPath string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "ohjain",
		Short: "EC2 instance lifecycle manager",
		Long: `ohjain - EC2 instance lifecycle manager

ohjain creates, updates, deletes and queries EC2 instances with one
request shape. When no action is given it infers one from the fields
present: an AMI means create, an instance ID means delete, both mean
update, neither means query.

Credentials come from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY or the
--access-key / --secret-key flags. Every operation is recorded in a
local journal.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`ohjain {{.Version}} - EC2 instance lifecycle manager
`)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
