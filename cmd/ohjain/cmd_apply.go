package main

import (
	"github.com/spf13/cobra"

	"github.com/ohjain/ohjain/types"
)

var applyFlags requestFlags

// applyCmd infers the action from the fields given.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the action inferred from the given fields",
	Long: `Apply infers the action from which identifying fields are present:

  --ami only                      create a new instance
  --instance-id and --ami         update the instance
  --instance-id only              delete the instance
  neither                         list all instances`,
	Example: `  ohjain apply --ami ami-0c55b159cbfafe1f0            # create
  ohjain apply -i i-1234567890abcdef0 --ami ami-xyz   # update
  ohjain apply -i i-1234567890abcdef0                 # delete
  ohjain apply                                        # list everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, &applyFlags, types.ActionAuto)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	addRequestFlags(applyCmd, &applyFlags)
}
