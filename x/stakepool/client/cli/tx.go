package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

// GetTxCmd returns the transaction commands for the stakepool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "stakepool",
		Short:                      "Stakepool module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdStake(),
		CmdWithdraw(),
		CmdClaimRewards(),
	)

	return cmd
}

// CmdStake returns the command to stake into a pool
func CmdStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [pool-id] [amount] [lock-days]",
		Short: "Stake tokens into a pool with a lock period",
		Long: `Stake tokens into a staking pool. Longer locks earn higher APY tiers.

Examples:
  twistd tx stakepool stake twist-main 1000000000 30 --from alice
  twistd tx stakepool stake twist-main 5000000000 365 --from bob`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			lockDays, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock days: %v", err)
			}

			msg := &types.MsgStake{
				Staker:     clientCtx.GetFromAddress().String(),
				PoolID:     args[0],
				Amount:     args[1],
				LockPeriod: lockDays * 86400,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to withdraw staked tokens
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [shares]",
		Short: "Withdraw staked tokens by redeeming shares",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Staker: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Shares: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimRewards returns the command to claim pending rewards
func CmdClaimRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim pending staking rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimRewards{
				Staker: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
