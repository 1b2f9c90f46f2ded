package cashbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisab-dev/hisab/internal/model"
)

func newTxn(d time.Time, typ model.TransactionType, amount string) model.Transaction {
	return model.Transaction{
		Date:        d,
		Type:        typ,
		Amount:      dec(amount),
		Party:       "Hariom Traders",
		PaymentMode: "Cash",
	}
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	svc := NewService(t.TempDir())
	d := date(2025, 6, 14)

	id1, err := svc.Add(newTxn(d, model.TypeSale, "100"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-14-001", id1)

	id2, err := svc.Add(newTxn(d, model.TypeExpense, "40"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-14-002", id2)

	// A different day restarts the sequence.
	id3, err := svc.Add(newTxn(date(2025, 6, 15), model.TypeSale, "20"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15-001", id3)
}

func TestAdd_WritesMonthFile(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root)

	_, err := svc.Add(newTxn(date(2025, 6, 14), model.TypeSale, "100"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "2025", "06", "cashbook.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Contains(t, lines[1], "2025-06-14-001")
	assert.Contains(t, lines[1], "100.00")
}

func TestAdd_RejectsInvalid(t *testing.T) {
	svc := NewService(t.TempDir())

	_, err := svc.Add(newTxn(date(2025, 6, 14), model.TransactionType("Refund"), "10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = svc.Add(newTxn(date(2025, 6, 14), model.TypeSale, "-10"))
	require.Error(t, err)

	_, err = svc.Add(model.Transaction{Type: model.TypeSale, Amount: dec("10")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no date")
}

func TestReadMonth_MissingIsEmpty(t *testing.T) {
	svc := NewService(t.TempDir())
	txns, err := svc.ReadMonth(2025, 6)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestReadDay(t *testing.T) {
	svc := NewService(t.TempDir())
	d := date(2025, 6, 14)

	_, err := svc.Add(newTxn(d, model.TypeSale, "100"))
	require.NoError(t, err)
	_, err = svc.Add(newTxn(date(2025, 6, 15), model.TypePurchase, "75"))
	require.NoError(t, err)
	_, err = svc.Add(newTxn(d, model.TypeExpense, "40"))
	require.NoError(t, err)

	txns, err := svc.ReadDay(d)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	// File order, which is the order they were recorded.
	assert.Equal(t, model.TypeSale, txns[0].Type)
	assert.Equal(t, model.TypeExpense, txns[1].Type)
}

func TestReadBefore_SpansMonths(t *testing.T) {
	svc := NewService(t.TempDir())

	_, err := svc.Add(newTxn(date(2025, 5, 30), model.TypeSale, "500"))
	require.NoError(t, err)
	_, err = svc.Add(newTxn(date(2025, 6, 13), model.TypeDrawing, "100"))
	require.NoError(t, err)
	_, err = svc.Add(newTxn(date(2025, 6, 14), model.TypeSale, "999"))
	require.NoError(t, err)

	txns, err := svc.ReadBefore(date(2025, 6, 14))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "2025-05-30-001", txns[0].ID)
	assert.Equal(t, "2025-06-13-001", txns[1].ID)
}

func TestReadBefore_EmptyBooks(t *testing.T) {
	svc := NewService(t.TempDir())
	txns, err := svc.ReadBefore(date(2025, 6, 14))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCSVRoundTrip(t *testing.T) {
	svc := NewService(t.TempDir())
	d := date(2025, 6, 14)

	in := newTxn(d, model.TypeInvoice, "1234.56")
	in.BillNumber = "INV-042"
	in.Notes = "GST invoice, counter sale"

	txnID, err := svc.Add(in)
	require.NoError(t, err)

	txns, err := svc.ReadDay(d)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	got := txns[0]
	assert.Equal(t, txnID, got.ID)
	assert.Equal(t, model.TypeInvoice, got.Type)
	assert.True(t, got.Amount.Equal(dec("1234.56")))
	assert.Equal(t, "Hariom Traders", got.Party)
	assert.Equal(t, "INV-042", got.BillNumber)
	assert.Equal(t, "GST invoice, counter sale", got.Notes)
}
