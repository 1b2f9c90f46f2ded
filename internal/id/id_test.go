package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTxnID(t *testing.T) {
	date := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-14-001", FormatTxnID(date, 1))
	assert.Equal(t, "2025-06-14-042", FormatTxnID(date, 42))
	assert.Equal(t, "2025-06-14-1000", FormatTxnID(date, 1000))
}

func TestParseTxnID(t *testing.T) {
	date, seq, err := ParseTxnID("2025-06-14-007")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, 7, seq)
}

func TestParseTxnID_RoundTrip(t *testing.T) {
	date := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	gotDate, gotSeq, err := ParseTxnID(FormatTxnID(date, 999))
	require.NoError(t, err)
	assert.Equal(t, date, gotDate)
	assert.Equal(t, 999, gotSeq)
}

func TestParseTxnID_Invalid(t *testing.T) {
	for _, bad := range []string{"", "2025-06-14", "2025-06-14-", "garbage", "2025-13-40-001", "2025-06-14-abc"} {
		_, _, err := ParseTxnID(bad)
		assert.Error(t, err, "id %q", bad)
	}
}
