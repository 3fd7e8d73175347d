package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/normalize"
	"github.com/cardledger/cardledger/internal/report"
	reportStore "github.com/cardledger/cardledger/internal/report/store"
)

var statsYear int

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display spending summaries",
	Long: `Display the monthly spend summary and the per-category breakdown
computed by the store. Amounts cover debits only and are exact; these
are the same pre-aggregated numbers the reporting API serves.

Example:
  cardledger stats --year 2025`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsYear, "year", 0, "restrict to one calendar year (default all)")
}

func runStats(cmd *cobra.Command, args []string) {
	_, db, err := openDatabase()
	exitOnError(err, "failed to connect to database")

	defer db.Close()

	svc := report.NewService(reportStore.New(db))
	ctx := context.Background()

	months, err := svc.MonthlySummary(ctx, statsYear)
	exitOnError(err, "failed to load monthly summary")

	breakdown, err := svc.CategoryBreakdown(ctx, statsYear)
	exitOnError(err, "failed to load category breakdown")

	fmt.Println(headingStyle.Render("Monthly spend"))
	printMonthly(months)

	fmt.Println()
	fmt.Println(headingStyle.Render("Spend by category"))
	printBreakdown(breakdown)
}

func printMonthly(months []report.MonthlySpend) {
	if len(months) == 0 {
		fmt.Println(dimStyle.Render("no transactions"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tSPEND\tTXNS\tAVG/TXN")

	for _, m := range months {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			m.Month,
			normalize.FormatCents(m.SpendCents),
			m.TxnCount,
			normalize.FormatCents(m.AvgPerTxnCents),
		)
	}

	_ = w.Flush()
}

func printBreakdown(cells []report.CategorySpend) {
	if len(cells) == 0 {
		fmt.Println(dimStyle.Render("no spending recorded"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tCATEGORY\tSPEND\tTXNS")

	for _, c := range cells {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			c.Month,
			c.Category,
			normalize.FormatCents(c.SpendCents),
			c.TxnCount,
		)
	}

	_ = w.Flush()
}
