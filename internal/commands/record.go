package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/cashbook"
	"github.com/hisab-dev/hisab/internal/model"
)

func newRecordCommand() *cobra.Command {
	var booksDir, date, party, mode, bill, notes string

	cmd := &cobra.Command{
		Use:   "record <type> <amount>",
		Short: "Record a cash transaction",
		Long: `Record a cash transaction in the cashbook.

Sale, Invoice and Receipt are cash-in; Purchase, Expense and Drawing
are cash-out.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(booksDir)
			if err != nil {
				return err
			}

			typ := model.TransactionType(args[0])
			if !typ.Recognized() {
				return fmt.Errorf("unknown transaction type %q", args[0])
			}

			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", args[1], err)
			}

			when, err := parseDate(date)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				Date:        when,
				Type:        typ,
				Amount:      amount,
				Party:       party,
				PaymentMode: mode,
				BillNumber:  bill,
				Notes:       notes,
			}

			svc := cashbook.NewService(dir)
			id, err := svc.Add(txn)
			if err != nil {
				return err
			}
			log.Info().Str("txn", id).Str("type", string(typ)).Msg("recorded")

			if _, err := autoCommit(dir, cfg, "record: "+id); err != nil {
				return err
			}
			fmt.Printf("Recorded %s %s as %s\n", typ, amount.StringFixed(2), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&booksDir, "books", ".", "books directory")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&party, "party", "", "customer or supplier name")
	cmd.Flags().StringVar(&mode, "mode", "Cash", "payment mode")
	cmd.Flags().StringVar(&bill, "bill", "", "bill number")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")

	return cmd
}
