package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/reclassify"
	"github.com/cardledger/cardledger/internal/rules"
	rulesStore "github.com/cardledger/cardledger/internal/rules/store"
	txStore "github.com/cardledger/cardledger/internal/transaction/store"
)

var (
	reclassifyFrom string
	reclassifyTo   string
)

var reclassifyCmd = &cobra.Command{
	Use:   "reclassify",
	Short: "Re-run the rule engine over stored transactions",
	Long: `Recompute the category of already-stored transactions with the
current rule set, without re-reading any source file. Only the category
column is overwritten; re-running with unchanged rules changes nothing.`,
	Run: runReclassify,
}

func init() {
	reclassifyCmd.Flags().StringVar(&reclassifyFrom, "from", "", "only transactions posted on or after this date (YYYY-MM-DD)")
	reclassifyCmd.Flags().StringVar(&reclassifyTo, "to", "", "only transactions posted on or before this date (YYYY-MM-DD)")
}

func runReclassify(cmd *cobra.Command, args []string) {
	startDate, err := parseDateFlag(reclassifyFrom)
	exitOnError(err, "invalid --from date")

	endDate, err := parseDateFlag(reclassifyTo)
	exitOnError(err, "invalid --to date")

	_, db, err := openDatabase()
	exitOnError(err, "failed to connect to database")

	defer db.Close()

	svc := reclassify.NewService(rules.NewService(rulesStore.New(db)), txStore.New(db))

	result, err := svc.Run(context.Background(), startDate, endDate)
	exitOnError(err, "reclassification failed")

	fmt.Printf("examined %d, updated %d, unchanged %d\n",
		result.Examined, result.Updated, result.Unchanged)
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
