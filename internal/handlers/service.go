package handlers

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/events"
	"launchcontrol/internal/store"
	"launchcontrol/internal/treasury"
)

var (
	ledger *engine.Ledger
	st     *store.Store
	book   *treasury.Book
	hub    *events.Hub

	// mu serializes every ledger operation. The engine itself is not
	// goroutine-safe; all reads and writes funnel through this lock.
	mu sync.Mutex
)

// Init wires the handler package to its collaborators. Store and hub may be
// nil in tests.
func Init(l *engine.Ledger, s *store.Store, b *treasury.Book, h *events.Hub) {
	ledger = l
	st = s
	book = b
	hub = h
}

// withWrite runs a mutating ledger operation under the lock and, when it
// commits, writes the snapshot through to the store. A failed save is logged
// but does not undo the committed operation.
func withWrite(fn func() error) error {
	mu.Lock()
	defer mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	if st != nil {
		if err := st.Save(ledger.Snapshot()); err != nil {
			log.WithFields(log.Fields{
				"error": err.Error(),
			}).Error("Failed to persist ledger snapshot")
		}
	}
	return nil
}

// withRead runs a read-only ledger view under the lock.
func withRead(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}

// statusFor maps an engine error to an HTTP status: rejected input is 400,
// a state conflict or exhausted budget is 409, a failed owner check is 403.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrZeroPayment),
		errors.Is(err, engine.ErrZeroAmount),
		errors.Is(err, engine.ErrUnsupportedAsset),
		errors.Is(err, engine.ErrBelowMinimum),
		errors.Is(err, engine.ErrAboveMaximum),
		errors.Is(err, engine.ErrBelowMinStake),
		errors.Is(err, engine.ErrInvalidIndex),
		errors.Is(err, engine.ErrUnknownPool),
		errors.Is(err, engine.ErrUnknownPhase),
		errors.Is(err, engine.ErrRateTooHigh):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrSaleEnded),
		errors.Is(err, engine.ErrSaleNotEnded),
		errors.Is(err, engine.ErrPoolInactive),
		errors.Is(err, engine.ErrInactiveStake),
		errors.Is(err, engine.ErrStillLocked),
		errors.Is(err, engine.ErrNotLocked),
		errors.Is(err, engine.ErrNoRewards),
		errors.Is(err, engine.ErrNotFlexible),
		errors.Is(err, engine.ErrBonusNotReady),
		errors.Is(err, engine.ErrSupplyExhausted),
		errors.Is(err, engine.ErrPhaseExhausted),
		errors.Is(err, engine.ErrPaused),
		errors.Is(err, engine.ErrReentrantCall),
		errors.Is(err, treasury.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotOwner):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// parseAmount parses a decimal string of 18-decimal base units. Amounts travel
// as strings end to end so they never pass through a float.
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
