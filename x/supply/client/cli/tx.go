package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

// GetTxCmd returns the transaction commands for the supply module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "supply",
		Short:                      "Supply module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdUpdatePrice(),
		CmdExecutePID(),
		CmdResetPID(),
		CmdTripBreaker(),
		CmdResetBreaker(),
	)

	return cmd
}

// CmdUpdatePrice returns the command to submit an oracle price update
func CmdUpdatePrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-price [source-id] [price] [confidence]",
		Short: "Submit an oracle price observation",
		Long: `Submit a single-source oracle price observation. Prices carry six
decimal places, so 50000 means $0.05.

Example:
  twistd tx supply update-price pyth 50000 25 --from oracle`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			price, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid price: %v", err)
			}
			confidence, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid confidence: %v", err)
			}

			msg := &types.MsgUpdateAggregatedPrice{
				Updater: clientCtx.GetFromAddress().String(),
				Sources: []types.PriceSource{{
					SourceID:    args[0],
					Price:       price,
					Confidence:  confidence,
					PublishTime: time.Now().Unix(),
				}},
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

// CmdExecutePID returns the command to run a supply adjustment cycle
func CmdExecutePID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute-pid",
		Short: "Run one supply controller adjustment cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgExecutePID{
				Executor: clientCtx.GetFromAddress().String(),
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

// CmdResetPID returns the command to reset the supply controller state
func CmdResetPID() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-pid",
		Short: "Reset the supply controller error state (authority only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgResetPID{
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

// CmdTripBreaker returns the command to manually trip the circuit breaker
func CmdTripBreaker() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip-breaker [severity] [reason]",
		Short: "Manually trip the circuit breaker (authority only)",
		Long: `Manually trip the economic circuit breaker. Severity is 1 (low)
through 4 (critical).

Example:
  twistd tx supply trip-breaker 3 "exchange exploit" --from authority`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			severity, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid severity: %v", err)
			}

			msg := &types.MsgTripCircuitBreaker{
				Authority: clientCtx.GetFromAddress().String(),
				Reason:    args[1],
				Severity:  int32(severity),
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

// CmdResetBreaker returns the command to manually reset the circuit breaker
func CmdResetBreaker() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-breaker",
		Short: "Manually reset a tripped circuit breaker (authority only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgResetCircuitBreaker{
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
