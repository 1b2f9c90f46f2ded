// Package coa models the chart of accounts as a forest of groups with
// ledger leaves. Nodes are held in lookup tables keyed by ID and linked by
// parent references, never by embedded pointers, so cycle checks and
// re-parenting stay cheap and observable.
package coa

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/model"
)

var (
	// ErrInvalidHierarchy is returned when a group insert or re-parent
	// would break the forest: missing parent, nature conflict, or a cycle.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")

	// ErrUnknownGroup is returned when a referenced group does not exist.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownNode is returned when a node ID matches neither a group
	// nor a ledger.
	ErrUnknownNode = errors.New("unknown node")

	// ErrBalanceSideMismatch is returned when a ledger's balance side
	// contradicts its group's nature.
	ErrBalanceSideMismatch = errors.New("balance side mismatch")

	// ErrDuplicateID is returned when an ID is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// NodeKind tags a traversal node as a group or a ledger. The kind is always
// explicit; it is never inferred from the shape of the data.
type NodeKind string

const (
	KindGroup  NodeKind = "group"
	KindLedger NodeKind = "ledger"
)

// Node is one visited node during a Walk. Group is meaningful when Kind is
// KindGroup, Ledger when Kind is KindLedger.
type Node struct {
	Kind   NodeKind
	Depth  int
	Group  model.Group
	Ledger model.Ledger
}

// Tree is the in-memory chart of accounts. Mutations to a Tree must be
// serialized by the caller.
type Tree struct {
	groups  map[string]model.Group
	ledgers map[string]model.Ledger

	roots        []string            // primary group IDs, insertion order
	childGroups  map[string][]string // group ID -> child group IDs, insertion order
	childLedgers map[string][]string // group ID -> ledger IDs, insertion order
}

// NewTree creates an empty chart of accounts.
func NewTree() *Tree {
	return &Tree{
		groups:       make(map[string]model.Group),
		ledgers:      make(map[string]model.Ledger),
		childGroups:  make(map[string][]string),
		childLedgers: make(map[string][]string),
	}
}

// InsertGroup adds a group to the tree. A failed insert leaves the tree
// unchanged.
func (t *Tree) InsertGroup(g model.Group) error {
	if g.ID == "" {
		return fmt.Errorf("%w: group has empty ID", ErrInvalidHierarchy)
	}
	if !g.Nature.Valid() {
		return fmt.Errorf("%w: group %s has unknown nature %q", ErrInvalidHierarchy, g.ID, g.Nature)
	}
	if _, ok := t.groups[g.ID]; ok {
		return fmt.Errorf("%w: group %s", ErrDuplicateID, g.ID)
	}
	if _, ok := t.ledgers[g.ID]; ok {
		return fmt.Errorf("%w: %s is a ledger", ErrDuplicateID, g.ID)
	}

	if g.ParentID != "" {
		parent, ok := t.groups[g.ParentID]
		if !ok {
			return fmt.Errorf("%w: parent group %s does not exist", ErrInvalidHierarchy, g.ParentID)
		}
		if parent.Nature != g.Nature {
			return fmt.Errorf("%w: group %s nature %s conflicts with parent %s nature %s",
				ErrInvalidHierarchy, g.ID, g.Nature, parent.ID, parent.Nature)
		}
		if err := t.checkNoCycle(g.ID, g.ParentID); err != nil {
			return err
		}
		t.childGroups[g.ParentID] = append(t.childGroups[g.ParentID], g.ID)
	} else {
		t.roots = append(t.roots, g.ID)
	}

	t.groups[g.ID] = g
	return nil
}

// InsertLedger adds a leaf ledger under an existing group. A non-zero
// opening balance must sit on the group's natural side; the current balance
// may sit on either side, since posting can push a ledger across (an asset
// account overdrawn onto Cr).
func (t *Tree) InsertLedger(l model.Ledger) error {
	if l.ID == "" {
		return fmt.Errorf("%w: ledger has empty ID", ErrUnknownNode)
	}
	if _, ok := t.ledgers[l.ID]; ok {
		return fmt.Errorf("%w: ledger %s", ErrDuplicateID, l.ID)
	}
	if _, ok := t.groups[l.ID]; ok {
		return fmt.Errorf("%w: %s is a group", ErrDuplicateID, l.ID)
	}

	g, ok := t.groups[l.GroupID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, l.GroupID)
	}

	for _, b := range []model.Balance{l.OpeningBalance, l.CurrentBalance} {
		if b.Amount.IsNegative() {
			return fmt.Errorf("%w: ledger %s balance magnitude is negative", ErrBalanceSideMismatch, l.ID)
		}
		if !b.Side.Valid() {
			return fmt.Errorf("%w: ledger %s has balance side %q", ErrBalanceSideMismatch, l.ID, b.Side)
		}
	}
	natural := g.Nature.NaturalSide()
	if !l.OpeningBalance.Amount.IsZero() && l.OpeningBalance.Side != natural {
		return fmt.Errorf("%w: ledger %s opens %s under %s group %s",
			ErrBalanceSideMismatch, l.ID, l.OpeningBalance.Side, g.Nature, g.ID)
	}

	t.childLedgers[l.GroupID] = append(t.childLedgers[l.GroupID], l.ID)
	t.ledgers[l.ID] = l
	return nil
}

// Reparent moves a group under a new parent (or to the root when newParentID
// is empty). Rejected if the move would create a cycle or change nature.
func (t *Tree) Reparent(groupID, newParentID string) error {
	g, ok := t.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	if newParentID != "" {
		parent, ok := t.groups[newParentID]
		if !ok {
			return fmt.Errorf("%w: parent group %s does not exist", ErrInvalidHierarchy, newParentID)
		}
		if parent.Nature != g.Nature {
			return fmt.Errorf("%w: group %s nature %s conflicts with parent %s nature %s",
				ErrInvalidHierarchy, groupID, g.Nature, parent.ID, parent.Nature)
		}
		if err := t.checkNoCycle(groupID, newParentID); err != nil {
			return err
		}
	}

	t.detachFromParent(g)
	g.ParentID = newParentID
	if newParentID == "" {
		t.roots = append(t.roots, groupID)
	} else {
		t.childGroups[newParentID] = append(t.childGroups[newParentID], groupID)
	}
	t.groups[groupID] = g
	return nil
}

// Rename changes a group's display name.
func (t *Tree) Rename(groupID, name string) error {
	g, ok := t.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}
	g.Name = name
	t.groups[groupID] = g
	return nil
}

// SetLedgerBalance records a new current balance for a ledger, after a
// posting collaborator has applied a transaction. Either side is accepted
// here: an asset ledger can go overdrawn onto Cr.
func (t *Tree) SetLedgerBalance(ledgerID string, b model.Balance) error {
	l, ok := t.ledgers[ledgerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, ledgerID)
	}
	if b.Amount.IsNegative() {
		return fmt.Errorf("%w: balance magnitude is negative", ErrBalanceSideMismatch)
	}
	if !b.Side.Valid() {
		return fmt.Errorf("%w: balance side %q", ErrBalanceSideMismatch, b.Side)
	}
	l.CurrentBalance = b
	t.ledgers[ledgerID] = l
	return nil
}

// BalanceOf returns a ledger's stored balance, or a group's recursive
// roll-up of every descendant ledger converted onto the group's natural
// side. The roll-up is computed on demand so it always reflects the latest
// leaf state.
func (t *Tree) BalanceOf(nodeID string) (model.Balance, error) {
	if l, ok := t.ledgers[nodeID]; ok {
		return l.CurrentBalance, nil
	}
	g, ok := t.groups[nodeID]
	if !ok {
		return model.Balance{}, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	natural := g.Nature.NaturalSide()
	sum := t.rollUp(g.ID, natural)

	b := model.Balance{Amount: sum, Side: natural}
	if sum.IsNegative() {
		b.Amount = sum.Neg()
		b.Side = natural.Opposite()
	}
	return b, nil
}

func (t *Tree) rollUp(groupID string, natural model.Side) decimal.Decimal {
	sum := decimal.Zero
	for _, lid := range t.childLedgers[groupID] {
		sum = sum.Add(t.ledgers[lid].CurrentBalance.Signed(natural))
	}
	for _, gid := range t.childGroups[groupID] {
		sum = sum.Add(t.rollUp(gid, natural))
	}
	return sum
}

// Walk visits the forest depth-first: each group, then its child groups
// recursively, then its ledgers, all in insertion order. Returning an error
// from fn stops the walk.
func (t *Tree) Walk(fn func(Node) error) error {
	for _, rid := range t.roots {
		if err := t.walkGroup(rid, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) walkGroup(groupID string, depth int, fn func(Node) error) error {
	if err := fn(Node{Kind: KindGroup, Depth: depth, Group: t.groups[groupID]}); err != nil {
		return err
	}
	for _, gid := range t.childGroups[groupID] {
		if err := t.walkGroup(gid, depth+1, fn); err != nil {
			return err
		}
	}
	for _, lid := range t.childLedgers[groupID] {
		if err := fn(Node{Kind: KindLedger, Depth: depth + 1, Ledger: t.ledgers[lid]}); err != nil {
			return err
		}
	}
	return nil
}

// Group returns a group by ID.
func (t *Tree) Group(id string) (model.Group, bool) {
	g, ok := t.groups[id]
	return g, ok
}

// Ledger returns a ledger by ID.
func (t *Tree) Ledger(id string) (model.Ledger, bool) {
	l, ok := t.ledgers[id]
	return l, ok
}

// GroupByName returns the first group with the given name in walk order.
func (t *Tree) GroupByName(name string) (model.Group, bool) {
	var found model.Group
	ok := false
	_ = t.Walk(func(n Node) error {
		if !ok && n.Kind == KindGroup && n.Group.Name == name {
			found = n.Group
			ok = true
		}
		return nil
	})
	return found, ok
}

// Groups returns all groups in walk order.
func (t *Tree) Groups() []model.Group {
	var out []model.Group
	_ = t.Walk(func(n Node) error {
		if n.Kind == KindGroup {
			out = append(out, n.Group)
		}
		return nil
	})
	return out
}

// GroupsByNature returns all groups of the given nature in walk order.
func (t *Tree) GroupsByNature(nature model.Nature) []model.Group {
	var out []model.Group
	for _, g := range t.Groups() {
		if g.Nature == nature {
			out = append(out, g)
		}
	}
	return out
}

// LedgersOf returns the ledgers directly under a group, in insertion order.
func (t *Tree) LedgersOf(groupID string) []model.Ledger {
	ids := t.childLedgers[groupID]
	out := make([]model.Ledger, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.ledgers[id])
	}
	return out
}

// checkNoCycle walks the ancestor chain of parentID and rejects if it
// passes through groupID. The walk is bounded by the group count so a
// corrupted chain cannot loop forever.
func (t *Tree) checkNoCycle(groupID, parentID string) error {
	cur := parentID
	for steps := 0; cur != ""; steps++ {
		if cur == groupID {
			return fmt.Errorf("%w: group %s would become its own ancestor", ErrInvalidHierarchy, groupID)
		}
		if steps > len(t.groups) {
			return fmt.Errorf("%w: ancestor chain of %s does not terminate", ErrInvalidHierarchy, parentID)
		}
		cur = t.groups[cur].ParentID
	}
	return nil
}

func (t *Tree) detachFromParent(g model.Group) {
	if g.ParentID == "" {
		t.roots = removeID(t.roots, g.ID)
		return
	}
	t.childGroups[g.ParentID] = removeID(t.childGroups[g.ParentID], g.ID)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
