package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/auditlog"
	"github.com/hisab-dev/hisab/internal/cashbook"
	"github.com/hisab-dev/hisab/internal/config"
	"github.com/hisab-dev/hisab/internal/daybook"
)

func newAdjustCommand() *cobra.Command {
	var booksDir, date, actual string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Correct the books to match a physical cash count",
		Long: `Correct the books to match a physical cash count.

Compares the recorded closing balance for the date against the counted
amount and records a backdated correcting transaction so the date's
opening balance lines up. Every correction is written to the audit log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(booksDir)
			if err != nil {
				return err
			}

			day, err := parseDate(date)
			if err != nil {
				return err
			}

			counted, err := decimal.NewFromString(actual)
			if err != nil {
				return fmt.Errorf("parsing actual balance %q: %w", actual, err)
			}

			return runAdjust(dir, cfg, day, counted)
		},
	}

	cmd.Flags().StringVar(&booksDir, "books", ".", "books directory")
	cmd.Flags().StringVar(&date, "date", "", "reconciliation date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&actual, "actual", "", "counted cash balance (required)")
	_ = cmd.MarkFlagRequired("actual")

	return cmd
}

func runAdjust(dir string, cfg *config.Config, day time.Time, counted decimal.Decimal) error {
	svc := cashbook.NewService(dir)

	opening, err := openingFor(svc, cfg, day)
	if err != nil {
		return err
	}
	txns, err := svc.ReadDay(day)
	if err != nil {
		return err
	}
	rec, err := daybook.Reconcile(opening, txns)
	if err != nil {
		return err
	}

	adj, err := daybook.ComputeAdjustment(rec.Closing, counted, day)
	if err != nil {
		return err
	}
	if adj.Balanced() {
		fmt.Printf("Books already match: %s\n", rec.Closing.StringFixed(2))
		return nil
	}

	id, err := svc.Add(*adj.Txn)
	if err != nil {
		return err
	}
	log.Info().Str("txn", id).Str("difference", adj.Difference.StringFixed(2)).Msg("recorded correction")

	hash, err := autoCommit(dir, cfg, "adjust: "+id)
	if err != nil {
		return err
	}

	entry := auditlog.Entry{
		Timestamp:  time.Now().UTC(),
		Recorded:   rec.Closing,
		Actual:     counted,
		Difference: adj.Difference,
		TxnID:      id,
		CommitHash: hash,
	}
	if err := auditlog.Append(dir, []auditlog.Entry{entry}); err != nil {
		return err
	}

	fmt.Printf("Recorded %s %s as %s; books now close at %s\n",
		adj.Txn.Type, adj.Txn.Amount.StringFixed(2), id, counted.StringFixed(2))
	return nil
}
