package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/cashbook"
	"github.com/hisab-dev/hisab/internal/daybook"
)

func newDaybookCommand() *cobra.Command {
	var booksDir, date string

	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "Reconcile one day's cash movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(booksDir)
			if err != nil {
				return err
			}

			day, err := parseDate(date)
			if err != nil {
				return err
			}

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
			return printReconciliation(day.Format(dateFormat), rec)
		},
	}

	cmd.Flags().StringVar(&booksDir, "books", ".", "books directory")
	cmd.Flags().StringVar(&date, "date", "", "date to reconcile (YYYY-MM-DD, defaults to today)")

	return cmd
}

func printReconciliation(date string, rec daybook.Reconciliation) error {
	fmt.Printf("Daybook for %s\n", date)
	fmt.Printf("Opening balance: %s\n\n", rec.Opening.StringFixed(2))

	for _, e := range rec.Entries {
		dir := "out"
		if e.CashIn {
			dir = "in"
		}
		party := e.Txn.Party
		if party == "" {
			party = "-"
		}
		fmt.Printf("%-16s %-10s %-20s %3s %10s %12s\n",
			e.Txn.ID, e.Txn.Type, party, dir,
			e.Txn.Amount.StringFixed(2), e.Running.StringFixed(2))
	}

	fmt.Printf("\nCash in:  %s\n", rec.TotalCashIn.StringFixed(2))
	fmt.Printf("Cash out: %s\n", rec.TotalCashOut.StringFixed(2))
	fmt.Printf("Closing balance: %s\n", rec.Closing.StringFixed(2))

	for _, w := range rec.Warnings {
		log.Warn().Str("txn", w.TxnID).Str("type", string(w.Type)).
			Msg("unrecognized transaction type treated as cash-out")
	}
	return nil
}
