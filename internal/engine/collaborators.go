package engine

import (
	"math/big"
	"time"
)

// Clock supplies the current time in Unix seconds. Each state-changing operation
// samples it exactly once and uses that value for all of its reward math.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// TransferService moves asset value between external accounts and the ledger
// reserve. Implementations must fail atomically: a returned error means no value
// moved, and the ledger will not commit any state for the failed operation.
type TransferService interface {
	// TransferIn pulls amount of asset from the given account into the reserve.
	TransferIn(asset, from string, amount *big.Int) error
	// TransferOut pays amount of asset from the reserve to the given account.
	TransferOut(asset, to string, amount *big.Int) error
}

// AccessControl answers whether a caller may use owner-gated operations.
// Verification of the caller's identity happens outside the engine.
type AccessControl interface {
	IsOwner(addr string) bool
}

// StaticOwner is an AccessControl with a single fixed owner address.
type StaticOwner string

func (o StaticOwner) IsOwner(addr string) bool { return addr != "" && addr == string(o) }
