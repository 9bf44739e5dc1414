package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

// GetTxCmd returns the transaction commands for the vau module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "vau",
		Short:                      "VAU module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdRegisterWebsite(),
		CmdVerifyWebsite(),
		CmdAddEdgeWorker(),
		CmdProcessVisitorBurn(),
		CmdClaimProcessorFees(),
		CmdUpdateWebsiteMetrics(),
	)

	return cmd
}

// CmdRegisterWebsite returns the command to register a website
func CmdRegisterWebsite() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-website [site-url] [sector]",
		Short: "Register a website for visitor attention burns",
		Long: `Register a website for visitor attention unit processing. The
site must be verified by the protocol authority before burns are accepted.

Example:
  twistd tx vau register-website https://example.com gaming --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRegisterWebsite{
				Owner:   clientCtx.GetFromAddress().String(),
				SiteURL: args[0],
				Sector:  args[1],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdVerifyWebsite returns the command to verify a registered website
func CmdVerifyWebsite() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-website [site-hash]",
		Short: "Verify a registered website (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVerifyWebsite{
				Authority: clientCtx.GetFromAddress().String(),
				SiteHash:  args[0],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddEdgeWorker returns the command to authorize an edge worker
func CmdAddEdgeWorker() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-worker [worker-address]",
		Short: "Authorize an edge worker to submit visitor burns (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAddEdgeWorker{
				Authority: clientCtx.GetFromAddress().String(),
				Worker:    args[0],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateWebsiteMetrics returns the command to report visitor stats
func CmdUpdateWebsiteMetrics() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-metrics [site-hash] [unique-visitors]",
		Short: "Report offchain visitor statistics for a site (edge worker only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			visitors, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return err
			}

			msg := &types.MsgUpdateWebsiteMetrics{
				EdgeWorker:     clientCtx.GetFromAddress().String(),
				SiteHash:       args[0],
				UniqueVisitors: visitors,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdProcessVisitorBurn returns the command to process a visitor burn
func CmdProcessVisitorBurn() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-burn [visitor] [site-url] [amount]",
		Short: "Process a visitor attention burn (edge worker only)",
		Long: `Submit a visitor attention burn on behalf of a visitor. The signer
must be an authorized edge worker and the site must be verified.

Example:
  twistd tx vau process-burn twist1visitor... https://example.com 1000000 --page-id home --from worker`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			pageID, err := cmd.Flags().GetString("page-id")
			if err != nil {
				return err
			}

			msg := &types.MsgProcessVisitorBurn{
				EdgeWorker: clientCtx.GetFromAddress().String(),
				Visitor:    args[0],
				SiteURL:    args[1],
				PageID:     pageID,
				Amount:     args[2],
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String("page-id", "", "Optional page identifier within the site")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimProcessorFees returns the command to claim accrued processor fees
func CmdClaimProcessorFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-fees",
		Short: "Claim accrued processor fees (authority only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimProcessorFees{
				Authority: clientCtx.GetFromAddress().String(),
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
