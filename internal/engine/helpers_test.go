package engine

import (
	"errors"
	"fmt"
	"math/big"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 { return c.now }

func (c *fakeClock) advance(seconds int64) { c.now += seconds }

// memTransfer is an in-memory balance book implementing TransferService.
// Balances are keyed by account then asset. failNext forces the next call to
// fail; onTransfer lets tests re-enter the ledger from inside a transfer.
type memTransfer struct {
	balances   map[string]map[string]*big.Int
	failNext   bool
	failAt     int // 1-based call number to fail on, 0 = never
	calls      int
	onTransfer func()
}

func newMemTransfer() *memTransfer {
	return &memTransfer{balances: make(map[string]map[string]*big.Int)}
}

func (m *memTransfer) balance(account, asset string) *big.Int {
	accts := m.balances[account]
	if accts == nil {
		accts = make(map[string]*big.Int)
		m.balances[account] = accts
	}
	bal := accts[asset]
	if bal == nil {
		bal = new(big.Int)
		accts[asset] = bal
	}
	return bal
}

func (m *memTransfer) credit(account, asset string, amount *big.Int) {
	m.balance(account, asset).Add(m.balance(account, asset), amount)
}

func (m *memTransfer) move(asset, from, to string, amount *big.Int) error {
	m.calls++
	if m.failNext || (m.failAt > 0 && m.calls == m.failAt) {
		m.failNext = false
		return errors.New("transfer refused")
	}
	if m.onTransfer != nil {
		m.onTransfer()
	}
	src := m.balance(from, asset)
	if src.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient %s balance for %s", asset, from)
	}
	src.Sub(src, amount)
	m.credit(to, asset, amount)
	return nil
}

func (m *memTransfer) TransferIn(asset, from string, amount *big.Int) error {
	return m.move(asset, from, ReserveAccount, amount)
}

func (m *memTransfer) TransferOut(asset, to string, amount *big.Int) error {
	return m.move(asset, ReserveAccount, to, amount)
}

// recordSink captures emitted events in order.
type recordSink struct {
	events []Event
}

func (s *recordSink) Emit(ev Event) { s.events = append(s.events, ev) }

func (s *recordSink) kinds() []EventKind {
	out := make([]EventKind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}

func (s *recordSink) last() Event {
	if len(s.events) == 0 {
		return Event{}
	}
	return s.events[len(s.events)-1]
}

const (
	testOwner = "owner-1"
	testToken = "LNCH"
	testUSDT  = "USDT"
)

// testLedger builds a ledger with the default launch parameters, a funded
// reserve and funded user accounts.
func testLedger() (*Ledger, *fakeClock, *memTransfer, *recordSink) {
	clock := &fakeClock{now: 1_700_000_000}
	transfers := newMemTransfer()
	sink := &recordSink{}
	l := NewLedger(Config{
		Access:          StaticOwner(testOwner),
		Clock:           clock,
		Transfers:       transfers,
		Sink:            sink,
		TokenAsset:      testToken,
		EmergencyFeeBPS: 500,
	})
	transfers.credit(ReserveAccount, testToken, tokens(100_000_000))
	return l, clock, transfers, sink
}
