package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the vau module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "vau",
		Short:                      "Querying commands for the vau module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryWebsite(),
		CmdQueryTopSites(),
	)

	return cmd
}

// CmdQueryWebsite returns the command to query a registered website
func CmdQueryWebsite() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website [site-hash]",
		Short: "Query a registered website by site hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Website query for %s requires running node connection\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryTopSites returns the command to query sites ranked by burns
func CmdQueryTopSites() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-sites [count]",
		Short: "Query websites ranked by total visitor burns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Top sites query requires running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
