package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	settingsDomain "github.com/allisson/posrecovery/internal/settings/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memPersistence is an in-memory PendingTransactionPersistence.
type memPersistence struct {
	mu      sync.Mutex
	values  map[string]string
	sets    int
	deletes int
}

func newMemPersistence() *memPersistence {
	return &memPersistence{values: make(map[string]string)}
}

func (m *memPersistence) GetSetting(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", settingsDomain.ErrSettingNotFound
	}
	return v, nil
}

func (m *memPersistence) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.sets++
	return nil
}

func (m *memPersistence) DeleteSetting(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.deletes++
	return nil
}

func (m *memPersistence) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// staticLookup resolves terminals from a fixed map.
type staticLookup struct {
	mu    sync.Mutex
	conns map[string]*terminalDomain.Connection
	calls map[string]int
}

func newStaticLookup(conns ...*terminalDomain.Connection) *staticLookup {
	l := &staticLookup{conns: make(map[string]*terminalDomain.Connection), calls: make(map[string]int)}
	for _, c := range conns {
		l.conns[c.ID] = c
	}
	return l
}

func (l *staticLookup) Lookup(_ context.Context, id string) (*terminalDomain.Connection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[id]++
	c, ok := l.conns[id]
	if !ok {
		return nil, terminalDomain.ErrTerminalNotFound
	}
	return c, nil
}

func (l *staticLookup) callCount(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

func testConnection(id, address string) *terminalDomain.Connection {
	return &terminalDomain.Connection{
		Info:   terminalDomain.Info{ID: id, Address: address, Port: 8080},
		Name:   "terminal " + id,
		APIKey: "live-secret-" + id,
	}
}

func newTestPending(t *testing.T, terminalID string, age time.Duration) *recoveryDomain.PendingTransaction {
	t.Helper()
	pt, err := recoveryDomain.NewPendingTransaction(
		"term-tx-"+terminalID,
		terminalDomain.Info{ID: terminalID, Address: "10.0.0.1", Port: 8080},
		decimal.RequireFromString("12.50"),
		"EUR",
		testNow.Add(-age),
	)
	require.NoError(t, err)
	return pt
}
