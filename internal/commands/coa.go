package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/coa"
	"github.com/hisab-dev/hisab/internal/model"
)

func newCoaCommand() *cobra.Command {
	var booksDir string

	cmd := &cobra.Command{
		Use:   "coa",
		Short: "Show the chart of accounts with rolled-up balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _, err := loadBooks(booksDir)
			if err != nil {
				return err
			}
			return runCoaShow(dir)
		},
	}

	cmd.PersistentFlags().StringVar(&booksDir, "books", ".", "books directory")

	cmd.AddCommand(newCoaAddGroupCommand(&booksDir))
	cmd.AddCommand(newCoaAddLedgerCommand(&booksDir))

	return cmd
}

func runCoaShow(booksRoot string) error {
	tree, err := coa.Load(booksRoot)
	if err != nil {
		return err
	}

	return tree.Walk(func(n coa.Node) error {
		indent := strings.Repeat("  ", n.Depth)
		switch n.Kind {
		case coa.KindGroup:
			bal, err := tree.BalanceOf(n.Group.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s%s  %s %s\n", indent, n.Group.Name, bal.Amount.StringFixed(2), bal.Side)
		case coa.KindLedger:
			b := n.Ledger.CurrentBalance
			fmt.Printf("%s%s  %s %s\n", indent, n.Ledger.Name, b.Amount.StringFixed(2), b.Side)
		}
		return nil
	})
}

func newCoaAddGroupCommand(booksDir *string) *cobra.Command {
	var name, parent, nature, description string

	cmd := &cobra.Command{
		Use:   "add-group",
		Short: "Add a group under an existing group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(*booksDir)
			if err != nil {
				return err
			}

			tree, err := coa.Load(dir)
			if err != nil {
				return err
			}

			g := model.Group{
				ID:          slugify(name),
				Name:        name,
				Nature:      model.Nature(nature),
				ParentID:    parent,
				Description: description,
			}
			if !g.Nature.Valid() {
				return fmt.Errorf("unknown nature %q", nature)
			}
			if err := tree.InsertGroup(g); err != nil {
				return err
			}
			if err := coa.Save(dir, tree); err != nil {
				return err
			}

			if _, err := autoCommit(dir, cfg, "coa: Add group "+name); err != nil {
				return err
			}
			fmt.Printf("Added group %s (%s)\n", name, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "group name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&parent, "parent", "", "parent group ID (required)")
	_ = cmd.MarkFlagRequired("parent")
	cmd.Flags().StringVar(&nature, "nature", "", "Assets, Liabilities, Income or Expenses (required)")
	_ = cmd.MarkFlagRequired("nature")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

func newCoaAddLedgerCommand(booksDir *string) *cobra.Command {
	var name, group, opening, side, gstNumber, mobile string

	cmd := &cobra.Command{
		Use:   "add-ledger",
		Short: "Add a ledger under a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cfg, err := loadBooks(*booksDir)
			if err != nil {
				return err
			}

			tree, err := coa.Load(dir)
			if err != nil {
				return err
			}

			bal, err := parseBalanceFlag(tree, group, opening, side)
			if err != nil {
				return err
			}
			l := model.Ledger{
				ID:             slugify(name),
				Name:           name,
				GroupID:        group,
				OpeningBalance: bal,
				CurrentBalance: bal,
				GSTNumber:      gstNumber,
				Mobile:         mobile,
			}
			if err := tree.InsertLedger(l); err != nil {
				return err
			}
			if err := coa.Save(dir, tree); err != nil {
				return err
			}

			if _, err := autoCommit(dir, cfg, "coa: Add ledger "+name); err != nil {
				return err
			}
			fmt.Printf("Added ledger %s (%s)\n", name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&group, "group", "", "parent group ID (required)")
	_ = cmd.MarkFlagRequired("group")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	cmd.Flags().StringVar(&side, "side", "", "opening balance side (Dr or Cr, defaults to the group's natural side)")
	cmd.Flags().StringVar(&gstNumber, "gst-number", "", "party GSTIN")
	cmd.Flags().StringVar(&mobile, "mobile", "", "party mobile")

	return cmd
}

// parseBalanceFlag parses an opening balance flag pair. An empty side
// defaults to the natural side of the target group's nature.
func parseBalanceFlag(tree *coa.Tree, groupID, amount, side string) (model.Balance, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Balance{}, fmt.Errorf("parsing opening balance %q: %w", amount, err)
	}

	s := model.Side(side)
	if side == "" {
		g, ok := tree.Group(groupID)
		if !ok {
			return model.Balance{}, fmt.Errorf("unknown group %q", groupID)
		}
		s = g.Nature.NaturalSide()
	}
	if !s.Valid() {
		return model.Balance{}, fmt.Errorf("unknown balance side %q", side)
	}
	return model.Balance{Amount: a, Side: s}, nil
}
