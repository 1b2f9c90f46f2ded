package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisab-dev/hisab/internal/model"
)

const posCSV = `Date,Bill No,Customer,Payment Mode,Amount
14/06/2025,B-101,Hariom Traders,Cash,1250.00
14/06/2025,B-102,,UPI,349.50
15/06/2025,B-103,Gupta Stores,Cash,78.00
`

func TestPOSParser_Parse(t *testing.T) {
	p := &POSParser{}
	txns, err := p.Parse(strings.NewReader(posCSV))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	first := txns[0]
	assert.Equal(t, model.TypeSale, first.Type)
	assert.Equal(t, "1250.00", first.Amount.StringFixed(2))
	assert.Equal(t, "Hariom Traders", first.Party)
	assert.Equal(t, "Cash", first.PaymentMode)
	assert.Equal(t, "B-101", first.BillNumber)
	assert.Equal(t, 2025, first.Date.Year())
	assert.Equal(t, 6, int(first.Date.Month()))
	assert.Equal(t, 14, first.Date.Day())

	// Walk-in customer, no party.
	assert.Empty(t, txns[1].Party)
	assert.Equal(t, "UPI", txns[1].PaymentMode)
}

func TestPOSParser_EmptyFile(t *testing.T) {
	p := &POSParser{}
	txns, err := p.Parse(strings.NewReader("Date,Bill No,Customer,Payment Mode,Amount\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestPOSParser_BadDate(t *testing.T) {
	csv := "Date,Bill No,Customer,Payment Mode,Amount\nNOTADATE,B-1,X,Cash,10.00\n"
	p := &POSParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestPOSParser_BadAmount(t *testing.T) {
	csv := "Date,Bill No,Customer,Payment Mode,Amount\n14/06/2025,B-1,X,Cash,NOTANUMBER\n"
	p := &POSParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestPOSParser_NegativeAmount(t *testing.T) {
	csv := "Date,Bill No,Customer,Payment Mode,Amount\n14/06/2025,B-1,X,Cash,-10.00\n"
	p := &POSParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestPOSParser_DefaultPaymentMode(t *testing.T) {
	csv := "Date,Bill No,Customer,Payment Mode,Amount\n14/06/2025,B-1,X,,10.00\n"
	p := &POSParser{}
	txns, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Cash", txns[0].PaymentMode)
}

func TestPOSParser_Format(t *testing.T) {
	p := &POSParser{}
	assert.Equal(t, "pos", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&POSParser{})
	p := r.Get("pos")
	require.NotNil(t, p)
	assert.Equal(t, "pos", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&POSParser{})
	assert.NotNil(t, r.Get("Pos"))
	assert.NotNil(t, r.Get("POS"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("pos"))
	assert.Contains(t, r.Formats(), "pos")
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "sales.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "sales.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "sales.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "sales.csv")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(importDir, "sales.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "sales.csv"))
	assert.NoError(t, err)
}
