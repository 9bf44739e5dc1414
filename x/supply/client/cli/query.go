package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the supply module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "supply",
		Short:                      "Querying commands for the supply module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryEconomicState(),
		CmdQueryController(),
	)

	return cmd
}

// CmdQueryEconomicState returns the command to query the economic state
func CmdQueryEconomicState() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Query the economic state and circuit breaker status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Economic state query requires running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryController returns the command to query the supply controller
func CmdQueryController() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "controller",
		Short: "Query the supply controller state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Controller query requires running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
