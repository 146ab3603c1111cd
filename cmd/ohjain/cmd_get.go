package main

import (
	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/types"
)

var getFlags requestFlags

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Query one instance, or all instances in the region",
	Example: `  ohjain get -i i-1234567890abcdef0   # one instance
  ohjain get                          # everything in the region`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, &getFlags, types.ActionGet)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	addRequestFlags(getCmd, &getFlags)
}
