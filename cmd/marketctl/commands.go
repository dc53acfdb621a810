package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"MarketDash/internal/services/presentation"
	"MarketDash/internal/services/webhook"
	"MarketDash/internal/usecase"
	"MarketDash/pkg/config"
)

// newRootCmd builds the marketctl command tree. Webhook settings come from
// the same environment variables the server reads.
func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "marketctl",
		Short: "MarketDash operator tool",
		Long: `marketctl evaluates stored analysis runs offline and fires the
workflow webhooks the dashboard buttons use.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env")
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg.ApplyEnv(os.LookupEnv)
			return nil
		},
	}

	root.PersistentFlags().String("env", ".env", "dotenv file, ignored when missing")

	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newTriggerCmd(cfg))
	root.AddCommand(newLynchCmd(cfg))
	return root
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the divergence rules over a stored analysis document",
		Long: `Reads a JSON analysis document (a stored run, its analysis object or
the bare per-symbol results) and prints the divergence warnings.
Example: marketctl evaluate --file run.json --output table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			output, _ := cmd.Flags().GetString("output")

			results, err := readResults(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return runEvaluate(cmd.OutOrStdout(), results, output)
		},
	}

	cmd.Flags().StringP("file", "f", "-", "analysis JSON file, - for stdin")
	cmd.Flags().StringP("output", "o", "table", "output format: table or json")
	return cmd
}

func newTriggerCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "trigger [market|stocks|holdings]",
		Short:     "Fire a workflow webhook",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"market", "stocks", "holdings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := webhook.NewClient(cfg.Webhooks.Timeout)
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Webhooks.Timeout)
			defer cancel()

			var (
				out any
				err error
			)
			switch args[0] {
			case "market":
				out, err = client.Trigger(ctx, cfg.Webhooks.MarketConditions, webhook.ActionCheckMarket)
			case "stocks":
				out, err = client.Trigger(ctx, cfg.Webhooks.StockAnalysis, webhook.ActionAnalyzeStocks)
			case "holdings":
				out, err = client.Sync(ctx, cfg.Webhooks.LiveHoldings)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	return cmd
}

func newLynchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lynch [TICKER]",
		Short: "Request the Lynch score of a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := webhook.NormalizeTicker(args[0])
			if ticker == "" {
				return fmt.Errorf("ticker is required")
			}
			client := webhook.NewClient(cfg.Webhooks.Timeout,
				webhook.WithRetry(cfg.Webhooks.RetryAttempts, 500*time.Millisecond),
			)
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Webhooks.Timeout)
			defer cancel()

			out, err := client.Lynch(ctx, cfg.Webhooks.Lynch, cfg.Webhooks.LynchToken, ticker)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

// readResults accepts a stored run, its analysis object or a bare results map.
func readResults(stdin io.Reader, file string) (map[string]any, error) {
	var r io.Reader = stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}

	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if a, ok := doc["analysis"].(map[string]any); ok {
		doc = a
	}
	if d, ok := doc["detailed_results"].(map[string]any); ok {
		return d, nil
	}
	return doc, nil
}

func runEvaluate(w io.Writer, results map[string]any, output string) error {
	res := usecase.NewMarketData(nil, nil, nil).Evaluate(results)

	switch output {
	case "json":
		return writeJSON(w, res)
	case "table":
		cards := presentation.SymbolCards(results)
		fmt.Fprintln(w, presentation.TerminalBlocks(res.Warnings))
		fmt.Fprintln(w)
		fmt.Fprintln(w, presentation.WarningTable(res.Warnings))
		for _, section := range []struct {
			title string
			cards []presentation.Card
		}{
			{"Major Indexes", cards.Indexes},
			{"Sector ETFs", cards.Sectors},
			{"Other Assets", cards.Others},
		} {
			if len(section.cards) == 0 {
				continue
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, presentation.CardTable(section.title, section.cards))
		}
		return nil
	default:
		return fmt.Errorf("unknown output %q, want table or json", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
