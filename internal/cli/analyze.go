package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solana-token-scan/internal/analyzer"
	"solana-token-scan/internal/telegram"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:     "analyze <mint-address>",
	Aliases: []string{"analyse"},
	Short:   "Analyse a single token and print the report",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		engine := a.NewAnalyzer()

		record, err := engine.Analyze(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, analyzer.ErrInvalidMint) {
				return fmt.Errorf("not a valid mint address: %s", args[0])
			}
			return err
		}

		if analyzeJSON {
			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), telegram.Report(record))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw record as JSON")
}
