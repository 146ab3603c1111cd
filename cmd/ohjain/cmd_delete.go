package main

import (
	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/types"
)

var deleteFlags requestFlags

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Terminate an EC2 instance",
	Long: `Delete terminates the instance and waits for termination. Instances
carrying a protected tag are refused unless --force is given.`,
	Example: `  ohjain delete -i i-1234567890abcdef0
  ohjain delete -i i-1234567890abcdef0 --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, &deleteFlags, types.ActionDelete)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	addRequestFlags(deleteCmd, &deleteFlags)
	_ = deleteCmd.MarkFlagRequired("instance-id")
}
