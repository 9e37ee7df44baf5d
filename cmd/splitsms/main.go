// Command splitsms is an offline CLI for the parsing and settlement core:
// parse a payment message into an expense, or settle a ledger of expenses
// into balances and transfers, without running the server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/splitsms/splitsms/internal/calculator"
	"github.com/splitsms/splitsms/internal/models"
	"github.com/splitsms/splitsms/internal/parser"
)

var (
	friendsFlag   string
	timestampFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "splitsms",
	Short: "Parse payment messages and settle shared expenses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <message text>",
	Short: "Parse a payment message into an expense",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		ts := timestampFlag
		if ts == 0 {
			ts = time.Now().UnixMilli()
		}

		expense, err := parser.New().Parse(text, splitFriends(), ts)
		if err != nil {
			if errors.Is(err, parser.ErrNoAmount) {
				return fmt.Errorf("message not recognized as a transaction")
			}
			return err
		}

		return printJSON(expense)
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle [expenses.json]",
	Short: "Compute balances and settlements from an expense list",
	Long: `Reads a JSON array of expenses from the given file (or stdin when
omitted) and prints the net balances and the greedy settlement plan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var expenses []models.Expense
		if err := json.NewDecoder(in).Decode(&expenses); err != nil {
			return fmt.Errorf("invalid expenses JSON: %w", err)
		}

		balances := calculator.CalculateBalances(expenses, splitFriends())
		settlements := calculator.CalculateSettlements(balances)

		return printJSON(map[string]any{
			"balances":    balances,
			"settlements": settlements,
		})
	},
}

func splitFriends() []string {
	if friendsFlag == "" {
		return nil
	}
	parts := strings.Split(friendsFlag, ",")
	friends := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			friends = append(friends, name)
		}
	}
	return friends
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&friendsFlag, "friends", "", "comma-separated friend roster, e.g. \"Alice,Bob\"")
	parseCmd.Flags().Int64Var(&timestampFlag, "timestamp", 0, "message receipt time in epoch milliseconds (default: now)")
	rootCmd.AddCommand(parseCmd, settleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
