package main

import (
	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/types"
)

var createFlags requestFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Launch a new EC2 instance",
	Example: `  ohjain create --ami ami-0c55b159cbfafe1f0
  ohjain create --ami ami-0c55b159cbfafe1f0 -t t3.small --key-name my-key --tag Name=web`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, &createFlags, types.ActionCreate)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	addRequestFlags(createCmd, &createFlags)
	_ = createCmd.MarkFlagRequired("ami")
}
