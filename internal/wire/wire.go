// Package wire defines the JSON shapes exchanged with the shop-management
// API and converts them to and from the core types. Amounts cross the
// boundary as json.Number and are parsed straight into decimals; a payload
// carrying NaN, infinity, or a malformed number is rejected before it can
// reach any computation.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/coa"
	"github.com/hisab-dev/hisab/internal/daybook"
	"github.com/hisab-dev/hisab/internal/model"
	"github.com/hisab-dev/hisab/internal/tax"
)

const dateFormat = "2006-01-02"

// ChartNode is one node of the chart-of-accounts tree as served by the
// API. A node carrying a children array, even an empty one, is a group;
// a node without one is a ledger leaf. DecodeChart turns that structural
// convention into the explicit group/ledger tags the core uses.
type ChartNode struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Nature      string       `json:"nature,omitempty"`
	Description string       `json:"description,omitempty"`
	IsSystem    bool         `json:"isSystem,omitempty"`
	Children    *[]ChartNode `json:"children,omitempty"`
	Ledgers     []ChartNode  `json:"ledgers,omitempty"`

	OpeningBalance     json.Number `json:"openingBalance,omitempty"`
	OpeningBalanceType string      `json:"openingBalanceType,omitempty"`
	CurrentBalance     json.Number `json:"currentBalance,omitempty"`
	BalanceType        string      `json:"balanceType,omitempty"`
}

// IsGroup reports whether the node is a group: the presence of a children
// collection, per the API's convention.
func (n ChartNode) IsGroup() bool {
	return n.Children != nil
}

// DecodeChart parses a chart-of-accounts fetch (an array of root nodes)
// and rebuilds the tree through the core's inserts, so a payload that
// violates the hierarchy invariants is rejected wholesale.
func DecodeChart(data []byte) (*coa.Tree, error) {
	var roots []ChartNode
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&roots); err != nil {
		return nil, fmt.Errorf("decoding chart of accounts: %w", err)
	}

	t := coa.NewTree()
	for _, root := range roots {
		if err := insertNode(t, root, ""); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func insertNode(t *coa.Tree, n ChartNode, parentID string) error {
	if !n.IsGroup() {
		return insertLedgerNode(t, n, parentID)
	}

	nature := model.Nature(n.Nature)
	if !nature.Valid() {
		return fmt.Errorf("group %s: unknown nature %q", n.ID, n.Nature)
	}
	err := t.InsertGroup(model.Group{
		ID:          n.ID,
		Name:        n.Name,
		Nature:      nature,
		ParentID:    parentID,
		IsSystem:    n.IsSystem,
		Description: n.Description,
	})
	if err != nil {
		return err
	}

	for _, child := range *n.Children {
		if err := insertNode(t, child, n.ID); err != nil {
			return err
		}
	}
	for _, l := range n.Ledgers {
		if err := insertLedgerNode(t, l, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func insertLedgerNode(t *coa.Tree, n ChartNode, groupID string) error {
	if groupID == "" {
		return fmt.Errorf("ledger %s: ledger cannot be a root node", n.ID)
	}

	opening, err := parseBalance("openingBalance", n.OpeningBalance, n.OpeningBalanceType)
	if err != nil {
		return fmt.Errorf("ledger %s: %w", n.ID, err)
	}
	current, err := parseBalance("currentBalance", n.CurrentBalance, n.BalanceType)
	if err != nil {
		return fmt.Errorf("ledger %s: %w", n.ID, err)
	}

	return t.InsertLedger(model.Ledger{
		ID:             n.ID,
		Name:           n.Name,
		GroupID:        groupID,
		OpeningBalance: opening,
		CurrentBalance: current,
	})
}

// EncodeChart renders the tree back into the API's node shape, root groups
// first, children and ledgers in walk order.
func EncodeChart(t *coa.Tree) []ChartNode {
	var build func(g model.Group) ChartNode
	build = func(g model.Group) ChartNode {
		children := []ChartNode{}
		for _, child := range t.Groups() {
			if child.ParentID == g.ID {
				children = append(children, build(child))
			}
		}
		node := ChartNode{
			ID:          g.ID,
			Name:        g.Name,
			Nature:      string(g.Nature),
			Description: g.Description,
			IsSystem:    g.IsSystem,
			Children:    &children,
		}
		for _, l := range t.LedgersOf(g.ID) {
			node.Ledgers = append(node.Ledgers, ChartNode{
				ID:                 l.ID,
				Name:               l.Name,
				OpeningBalance:     jsonNumber(l.OpeningBalance.Amount),
				OpeningBalanceType: string(l.OpeningBalance.Side),
				CurrentBalance:     jsonNumber(l.CurrentBalance.Amount),
				BalanceType:        string(l.CurrentBalance.Side),
			})
		}
		return node
	}

	var roots []ChartNode
	for _, g := range t.Groups() {
		if g.ParentID == "" {
			roots = append(roots, build(g))
		}
	}
	return roots
}

// GroupSummary is one row of the flat groups list used for parent
// selection and nature filtering.
type GroupSummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Nature string `json:"nature"`
}

// GroupSummaries flattens the tree's groups in walk order.
func GroupSummaries(t *coa.Tree) []GroupSummary {
	var out []GroupSummary
	for _, g := range t.Groups() {
		out = append(out, GroupSummary{ID: g.ID, Name: g.Name, Nature: string(g.Nature)})
	}
	return out
}

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	ParentGroup string `json:"parentGroup,omitempty"`
	Nature      string `json:"nature"`
	Description string `json:"description,omitempty"`
}

// Group converts the request into a model group with the given ID.
func (r CreateGroupRequest) Group(id string) (model.Group, error) {
	nature := model.Nature(r.Nature)
	if !nature.Valid() {
		return model.Group{}, fmt.Errorf("unknown nature %q", r.Nature)
	}
	return model.Group{
		ID:          id,
		Name:        r.Name,
		Nature:      nature,
		ParentID:    r.ParentGroup,
		Description: r.Description,
	}, nil
}

// CreateLedgerRequest is the payload for creating a ledger under a group.
type CreateLedgerRequest struct {
	Name               string      `json:"name"`
	Group              string      `json:"group"`
	OpeningBalance     json.Number `json:"openingBalance,omitempty"`
	OpeningBalanceType string      `json:"openingBalanceType,omitempty"`
	GSTNumber          string      `json:"gstNumber,omitempty"`
	PANNumber          string      `json:"panNumber,omitempty"`
	Mobile             string      `json:"mobile,omitempty"`
	Email              string      `json:"email,omitempty"`
	Address            string      `json:"address,omitempty"`
}

// Ledger converts the request into a model ledger with the given ID. The
// current balance starts equal to the opening balance.
func (r CreateLedgerRequest) Ledger(id string) (model.Ledger, error) {
	opening, err := parseBalance("openingBalance", r.OpeningBalance, r.OpeningBalanceType)
	if err != nil {
		return model.Ledger{}, err
	}
	return model.Ledger{
		ID:             id,
		Name:           r.Name,
		GroupID:        r.Group,
		OpeningBalance: opening,
		CurrentBalance: opening,
		GSTNumber:      r.GSTNumber,
		PANNumber:      r.PANNumber,
		Mobile:         r.Mobile,
		Email:          r.Email,
		Address:        r.Address,
	}, nil
}

// PartyRef is the populated party reference on a daybook transaction.
type PartyRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// DaybookTransaction is one transaction in a daybook fetch.
type DaybookTransaction struct {
	ID          string      `json:"_id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Party       *PartyRef   `json:"party,omitempty"`
	PaymentMode string      `json:"paymentMode,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	BillNumber  string      `json:"billNumber,omitempty"`
	Description string      `json:"description,omitempty"`
}

// DaybookResponse is a daybook fetch for one date.
type DaybookResponse struct {
	OpeningBalance json.Number          `json:"openingBalance"`
	Transactions   []DaybookTransaction `json:"transactions"`
	Date           string               `json:"date,omitempty"`
}

// DecodeDaybook parses a daybook fetch into the opening balance and the
// transactions in recorded order, ready for reconciliation.
func DecodeDaybook(data []byte) (decimal.Decimal, []model.Transaction, error) {
	var resp DaybookResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return decimal.Decimal{}, nil, fmt.Errorf("decoding daybook: %w", err)
	}

	opening, err := parseAmount("openingBalance", resp.OpeningBalance)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}

	var txns []model.Transaction
	for i, wt := range resp.Transactions {
		amount, err := parseAmount("amount", wt.Amount)
		if err != nil {
			return decimal.Decimal{}, nil, fmt.Errorf("transaction %d (%s): %w", i+1, wt.ID, err)
		}
		txn := model.Transaction{
			ID:          wt.ID,
			Type:        model.TransactionType(wt.Type),
			Amount:      amount,
			PaymentMode: wt.PaymentMode,
			Notes:       wt.Notes,
			BillNumber:  wt.BillNumber,
		}
		if wt.Party != nil {
			txn.Party = wt.Party.Name
		}
		txns = append(txns, txn)
	}
	return opening, txns, nil
}

// AdjustmentRequest is the balance-adjustment post. Debit/Receipt is the
// cash-in case, Credit/Drawing the cash-out case.
type AdjustmentRequest struct {
	Amount   json.Number `json:"amount"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Notes    string      `json:"notes"`
}

// EncodeAdjustment renders a computed adjustment as the API payload.
// An already-balanced adjustment produces nothing to post.
func EncodeAdjustment(adj daybook.Adjustment) (*AdjustmentRequest, error) {
	if adj.Balanced() {
		return nil, nil
	}

	req := &AdjustmentRequest{
		Amount:   jsonNumber(adj.Txn.Amount),
		Date:     adj.Txn.Date.Format(dateFormat),
		Notes:    adj.Txn.Notes,
		Category: string(adj.Txn.Type),
	}
	switch adj.Txn.Type {
	case model.TypeReceipt:
		req.Type = "Debit"
	case model.TypeDrawing:
		req.Type = "Credit"
	default:
		return nil, fmt.Errorf("adjustment transaction has unexpected type %q", adj.Txn.Type)
	}
	return req, nil
}

// DecodeAdjustment parses a posted adjustment back into a transaction,
// for replaying a collaborator's records locally.
func DecodeAdjustment(data []byte) (model.Transaction, error) {
	var req AdjustmentRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return model.Transaction{}, fmt.Errorf("decoding adjustment: %w", err)
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return model.Transaction{}, err
	}
	if amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("amount: must not be negative")
	}

	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", req.Date, err)
	}

	typ := model.TransactionType(req.Category)
	if typ != model.TypeReceipt && typ != model.TypeDrawing {
		return model.Transaction{}, fmt.Errorf("unknown adjustment category %q", req.Category)
	}

	return model.Transaction{
		Date:        date,
		Type:        typ,
		Amount:      amount,
		PaymentMode: "Cash",
		Notes:       req.Notes,
	}, nil
}

// InvoiceLineRequest is one invoice line item as sent by the billing UI.
type InvoiceLineRequest struct {
	Quantity       int         `json:"quantity"`
	PricePerUnit   json.Number `json:"pricePerUnit"`
	GSTPercent     json.Number `json:"gstPercent"`
	IsTaxInclusive bool        `json:"isTaxInclusive"`
}

// InvoiceLineResponse is the computed decomposition returned for a line.
type InvoiceLineResponse struct {
	TaxableValue decimal.Decimal `json:"taxableValue"`
	GSTAmount    decimal.Decimal `json:"gstAmount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// ComputeInvoiceLine parses and computes one line item.
func ComputeInvoiceLine(req InvoiceLineRequest) (InvoiceLineResponse, error) {
	price, err := parseAmount("pricePerUnit", req.PricePerUnit)
	if err != nil {
		return InvoiceLineResponse{}, err
	}
	rate, err := parseAmount("gstPercent", req.GSTPercent)
	if err != nil {
		return InvoiceLineResponse{}, err
	}

	mode := tax.PricingExclusive
	if req.IsTaxInclusive {
		mode = tax.PricingInclusive
	}

	line, err := tax.ComputeLine(req.Quantity, price, rate, mode)
	if err != nil {
		return InvoiceLineResponse{}, err
	}
	return InvoiceLineResponse{
		TaxableValue: line.TaxableValue,
		GSTAmount:    line.TaxAmount,
		TotalAmount:  line.LineTotal,
	}, nil
}

// parseAmount converts a wire number into a decimal. An absent number is
// zero; NaN, infinities, and garbage are rejected.
func parseAmount(field string, n json.Number) (decimal.Decimal, error) {
	s := n.String()
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: not a finite number: %q", field, s)
	}
	return d, nil
}

func parseBalance(field string, amount json.Number, side string) (model.Balance, error) {
	a, err := parseAmount(field, amount)
	if err != nil {
		return model.Balance{}, err
	}
	if a.IsNegative() {
		return model.Balance{}, fmt.Errorf("%s: must not be negative", field)
	}
	s := model.Side(side)
	if side == "" {
		s = model.SideDr
	}
	if !s.Valid() {
		return model.Balance{}, fmt.Errorf("%s: unknown balance side %q", field, side)
	}
	return model.Balance{Amount: a, Side: s}, nil
}

func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
