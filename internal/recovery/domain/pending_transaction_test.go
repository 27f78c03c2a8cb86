package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

var testTerminal = terminalDomain.Info{ID: "counter-1", Address: "10.0.0.5", Port: 8080}

func TestNewPendingTransaction(t *testing.T) {
	startedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		pt, err := NewPendingTransaction("term-tx-1", testTerminal, decimal.RequireFromString("12.50"), "EUR", startedAt)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, pt.ID)
		assert.Equal(t, uuid.Version(7), pt.ID.Version())
		assert.Equal(t, "term-tx-1", pt.TerminalTransactionID)
		assert.Equal(t, "counter-1", pt.TerminalID)
		assert.Equal(t, testTerminal, pt.Terminal)
		assert.True(t, pt.Amount.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, string(StatusPending), pt.Status)
		assert.Equal(t, startedAt, pt.StartedAt)
		assert.Nil(t, pt.LastPolledAt)
	})

	invalid := []struct {
		name     string
		termTxID string
		terminal terminalDomain.Info
		amount   decimal.Decimal
		currency string
		started  time.Time
	}{
		{"missing terminal transaction id", "", testTerminal, decimal.NewFromInt(1), "EUR", startedAt},
		{"missing terminal id", "tx", terminalDomain.Info{}, decimal.NewFromInt(1), "EUR", startedAt},
		{"zero amount", "tx", testTerminal, decimal.Zero, "EUR", startedAt},
		{"negative amount", "tx", testTerminal, decimal.NewFromInt(-5), "EUR", startedAt},
		{"lowercase currency", "tx", testTerminal, decimal.NewFromInt(1), "eur", startedAt},
		{"missing start", "tx", testTerminal, decimal.NewFromInt(1), "EUR", time.Time{}},
	}
	for _, tt := range invalid {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			pt, err := NewPendingTransaction(tt.termTxID, tt.terminal, tt.amount, tt.currency, tt.started)
			assert.Nil(t, pt)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}

func TestPendingTransaction_Validate_NilID(t *testing.T) {
	pt := &PendingTransaction{
		TerminalTransactionID: "tx",
		TerminalID:            "counter-1",
		Amount:                decimal.NewFromInt(1),
		Currency:              "EUR",
		StartedAt:             time.Now(),
	}
	assert.ErrorIs(t, pt.Validate(), errors.ErrInvalidInput)
}

func TestPendingTransaction_SameIdentity(t *testing.T) {
	base, err := NewPendingTransaction("tx", testTerminal, decimal.RequireFromString("10.00"), "EUR", time.Now())
	require.NoError(t, err)

	same := *base
	same.Amount = decimal.RequireFromString("10")
	same.Status = string(StatusProcessing)
	assert.True(t, base.SameIdentity(&same))

	changedAmount := *base
	changedAmount.Amount = decimal.RequireFromString("10.01")
	assert.False(t, base.SameIdentity(&changedAmount))

	changedCurrency := *base
	changedCurrency.Currency = "USD"
	assert.False(t, base.SameIdentity(&changedCurrency))

	changedTerminal := *base
	changedTerminal.TerminalID = "counter-2"
	assert.False(t, base.SameIdentity(&changedTerminal))
}

func TestPendingTransaction_Age(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pt := &PendingTransaction{StartedAt: now.Add(-45 * time.Minute)}
	assert.Equal(t, 45*time.Minute, pt.Age(now))
}

func TestRecoveryResult(t *testing.T) {
	a := &PendingTransaction{ID: uuid.Must(uuid.NewV7())}
	b := &PendingTransaction{ID: uuid.Must(uuid.NewV7())}
	c := &PendingTransaction{ID: uuid.Must(uuid.NewV7())}

	r := NewRecoveryResult()
	assert.Equal(t, 0, r.Total())

	r.Recovered = append(r.Recovered, a)
	r.Failed = append(r.Failed, FailedTransaction{Transaction: b, Reason: ReasonStale})
	r.Orphaned = append(r.Orphaned, c)

	assert.Equal(t, 3, r.Total())
	assert.Equal(t, map[Disposition]int{
		DispositionRecovered: 1,
		DispositionFailed:    1,
		DispositionOrphaned:  1,
	}, r.Counts())

	d, ok := r.Disposition(b.ID)
	assert.True(t, ok)
	assert.Equal(t, DispositionFailed, d)

	_, ok = r.Disposition(uuid.Must(uuid.NewV7()))
	assert.False(t, ok)
}
