package main

import (
	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/types"
)

var updateFlags requestFlags

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the type or tags of an existing instance",
	Long: `Update stops the instance, applies the new instance type and tags,
and starts it again.`,
	Example: `  ohjain update -i i-1234567890abcdef0 -t m5.large
  ohjain update -i i-1234567890abcdef0 -t m5.large --tag Name=web-v2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, &updateFlags, types.ActionUpdate)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addRequestFlags(updateCmd, &updateFlags)
	_ = updateCmd.MarkFlagRequired("instance-id")
}
