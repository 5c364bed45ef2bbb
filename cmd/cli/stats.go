package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
	"github.com/salonhub/visits-service/internal/reports"
	"github.com/salonhub/visits-service/internal/stats"
)

var (
	statsFrom   string
	statsTo     string
	statsOutput string
	statsXlsx   string
)

var statsDayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Per-master revenue totals over a date range",
	Long: `Aggregate arrived paid visits into per-master revenue totals. Only paid
groups count; consultations and no-shows carry no attributable revenue.
Dates are Kyiv calendar days, both bounds inclusive.`,
	Example: `  visits-service stats --from 2025-03-01 --to 2025-03-31
  visits-service stats --from 2025-03-01 --to 2025-03-31 --xlsx march.xlsx
  visits-service stats --output json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Start day, YYYY-MM-DD (inclusive)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "End day, YYYY-MM-DD (inclusive)")
	statsCmd.Flags().StringVar(&statsOutput, "output", "table", "Output format: table or json")
	statsCmd.Flags().StringVar(&statsXlsx, "xlsx", "", "Write the report to this .xlsx file instead of stdout")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsFrom != "" && !statsDayPattern.MatchString(statsFrom) {
		return fmt.Errorf("--from must be YYYY-MM-DD, got %q", statsFrom)
	}
	if statsTo != "" && !statsDayPattern.MatchString(statsTo) {
		return fmt.Errorf("--to must be YYYY-MM-DD, got %q", statsTo)
	}
	if statsFrom != "" && statsTo != "" && statsFrom > statsTo {
		return fmt.Errorf("--from %s is after --to %s", statsFrom, statsTo)
	}

	ctx := context.Background()
	payloads, err := database.RecentLogPayloads(ctx, database.Pool(), cfg.Logs.FetchLimit)
	if err != nil {
		return fmt.Errorf("failed to read webhook log: %w", err)
	}
	logger.Info().Int("rows", len(payloads)).Msg("Read webhook log")

	groups := records.GroupByClientDay(records.Normalize(payloads))
	totals := stats.PeriodTotals(groups, statsFrom, statsTo)

	if statsXlsx != "" {
		buf, err := reports.BuildMastersWorkbook(totals, statsFrom, statsTo)
		if err != nil {
			return fmt.Errorf("failed to build workbook: %w", err)
		}
		if err := os.WriteFile(statsXlsx, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", statsXlsx, err)
		}
		logger.Info().Str("file", statsXlsx).Int("masters", len(totals)).Msg("Report written")
		return nil
	}

	if statsOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(totals)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MASTER\tVISITS\tSERVICES\tHAIR\tGOODS\tTOTAL\tHANDS")
	for _, m := range totals {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			m.MasterName, m.Visits, m.ServicesSum, m.HairSum, m.GoodsSum, m.TotalSum, m.Hands)
	}
	return w.Flush()
}
