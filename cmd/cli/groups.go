package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
)

var (
	groupsOutput string
	groupsLimit  int
)

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:   "groups <clientId>",
	Short: "Rebuild and show a client's visit groups from the webhook log",
	Long: `Rebuild a client's visit groups from the raw webhook log and print them
newest first. Each group covers one Kyiv calendar day and one visit type
(consultation or paid), with resolved attendance and staff attribution.`,
	Example: `  visits-service groups 18347
  visits-service groups 18347 --output json
  visits-service groups 18347 --limit 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsCmd.Flags().StringVar(&groupsOutput, "output", "table", "Output format: table or json")
	groupsCmd.Flags().IntVar(&groupsLimit, "limit", 0, "Log rows to read per source (0 = configured fetch_limit)")
}

func runGroups(cmd *cobra.Command, args []string) error {
	clientID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || clientID <= 0 {
		return fmt.Errorf("clientId must be a positive integer, got %q", args[0])
	}

	limit := groupsLimit
	if limit <= 0 {
		limit = cfg.Logs.FetchLimit
	}

	ctx := context.Background()
	payloads, err := database.RecentLogPayloads(ctx, database.Pool(), limit)
	if err != nil {
		return fmt.Errorf("failed to read webhook log: %w", err)
	}
	logger.Info().Int("rows", len(payloads)).Msg("Read webhook log")

	groups := records.GroupByClientDay(records.Normalize(payloads))[clientID]
	if len(groups) == 0 {
		fmt.Printf("No groups found for client %d\n", clientID)
		return nil
	}

	if groupsOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tTYPE\tATTENDANCE\tSTAFF\tSERVICES\tCOST\tEVENTS")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			g.KyivDay,
			g.Type,
			g.Status,
			strings.Join(g.StaffNames, ", "),
			len(g.Services),
			records.ServicesCost(g.Services),
			len(g.Events),
		)
	}
	return w.Flush()
}
