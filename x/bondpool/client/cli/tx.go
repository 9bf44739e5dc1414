package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

// GetTxCmd returns the transaction commands for the bondpool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "bondpool",
		Short:                      "Bondpool module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateSectorPool(),
		CmdBondStake(),
		CmdUnwrap(),
		CmdClaimBondRewards(),
		CmdSetFactoryPaused(),
	)

	return cmd
}

// CmdCreateSectorPool returns the command to create a sector bond pool
func CmdCreateSectorPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [sector] [lock-days]",
		Short: "Create a sector bond pool",
		Long: `Create a bond pool for an industry sector. Stakers receive
sector wrapper tokens against their locked TWIST.

Example:
  twistd tx bondpool create-pool gaming 90 --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			lockDays, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock days: %v", err)
			}

			msg := &types.MsgCreateSectorPool{
				Creator:      clientCtx.GetFromAddress().String(),
				Sector:       args[0],
				LockDuration: lockDays * 86400,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdBondStake returns the command to stake into a sector pool
func CmdBondStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [sector] [amount]",
		Short: "Stake TWIST into a sector bond pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgBondStake{
				Staker: clientCtx.GetFromAddress().String(),
				Sector: args[0],
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUnwrap returns the command to unwrap sector tokens back to TWIST
func CmdUnwrap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unwrap [sector] [amount]",
		Short: "Unwrap sector tokens back to TWIST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			early, err := cmd.Flags().GetBool("early")
			if err != nil {
				return err
			}

			msg := &types.MsgUnwrap{
				Staker: clientCtx.GetFromAddress().String(),
				Sector: args[0],
				Amount: args[1],
				Early:  early,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Bool("early", false, "unwrap before maturity, paying the burn penalty")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetFactoryPaused returns the command to pause or resume the factory
func CmdSetFactoryPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-paused [true|false]",
		Short: "Pause or resume the bond pool factory (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			paused, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid paused flag: %v", err)
			}

			msg := &types.MsgSetFactoryPaused{
				Authority: clientCtx.GetFromAddress().String(),
				Paused:    paused,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimBondRewards returns the command to claim bond pool rewards
func CmdClaimBondRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [sector]",
		Short: "Claim pending bond pool rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimBondRewards{
				Staker: clientCtx.GetFromAddress().String(),
				Sector: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
