package coa

import "github.com/hisab-dev/hisab/internal/model"

// DefaultTree returns a chart seeded with the standard trading-business
// group hierarchy. Every group is inserted through InsertGroup so the seed
// itself cannot violate the forest invariants.
func DefaultTree() *Tree {
	t := NewTree()
	for _, g := range defaultGroups() {
		if err := t.InsertGroup(g); err != nil {
			// The seed list is static; a bad row is a programming error.
			panic("seeding default chart: " + err.Error())
		}
	}
	return t
}

func defaultGroups() []model.Group {
	sys := func(id, name string, nature model.Nature, parent string) model.Group {
		return model.Group{ID: id, Name: name, Nature: nature, ParentID: parent, IsSystem: true}
	}

	return []model.Group{
		// Primary groups.
		sys("assets", "Assets", model.NatureAssets, ""),
		sys("liabilities", "Liabilities", model.NatureLiabilities, ""),
		sys("income", "Income", model.NatureIncome, ""),
		sys("expenses", "Expenses", model.NatureExpenses, ""),

		// Assets.
		sys("current-assets", "Current Assets", model.NatureAssets, "assets"),
		sys("fixed-assets", "Fixed Assets", model.NatureAssets, "assets"),
		sys("investments", "Investments", model.NatureAssets, "assets"),
		sys("misc-expenses-asset", "Misc. Expenses (ASSET)", model.NatureAssets, "assets"),
		sys("suspense", "Suspense A/c", model.NatureAssets, "assets"),

		// Under Current Assets.
		sys("bank-accounts", "Bank Accounts", model.NatureAssets, "current-assets"),
		sys("cash-in-hand", "Cash-in-Hand", model.NatureAssets, "current-assets"),
		sys("stock-in-hand", "Stock-in-Hand", model.NatureAssets, "current-assets"),
		sys("sundry-debtors", "Sundry Debtors", model.NatureAssets, "current-assets"),
		sys("loans-advances-asset", "Loans & Advances (Asset)", model.NatureAssets, "current-assets"),
		sys("deposits-asset", "Deposits (Asset)", model.NatureAssets, "current-assets"),

		// Liabilities.
		sys("capital-account", "Capital Account", model.NatureLiabilities, "liabilities"),
		sys("current-liabilities", "Current Liabilities", model.NatureLiabilities, "liabilities"),
		sys("loans-liability", "Loans (Liability)", model.NatureLiabilities, "liabilities"),
		sys("branch-divisions", "Branch / Divisions", model.NatureLiabilities, "liabilities"),

		// Under Current Liabilities.
		sys("duties-taxes", "Duties & Taxes", model.NatureLiabilities, "current-liabilities"),
		sys("provisions", "Provisions", model.NatureLiabilities, "current-liabilities"),
		sys("sundry-creditors", "Sundry Creditors", model.NatureLiabilities, "current-liabilities"),

		// Under Loans (Liability).
		sys("bank-od", "Bank OD A/c", model.NatureLiabilities, "loans-liability"),
		sys("secured-loans", "Secured Loans", model.NatureLiabilities, "loans-liability"),
		sys("unsecured-loans", "Unsecured Loans", model.NatureLiabilities, "loans-liability"),

		// Income.
		sys("sales-accounts", "Sales Accounts", model.NatureIncome, "income"),
		sys("direct-income", "Direct Income", model.NatureIncome, "income"),
		sys("indirect-income", "Indirect Income", model.NatureIncome, "income"),

		// Expenses.
		sys("purchase-accounts", "Purchase Accounts", model.NatureExpenses, "expenses"),
		sys("direct-expenses", "Direct Expenses", model.NatureExpenses, "expenses"),
		sys("indirect-expenses", "Indirect Expenses", model.NatureExpenses, "expenses"),
	}
}
