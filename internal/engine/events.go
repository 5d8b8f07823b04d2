package engine

// EventKind identifies a ledger notification.
type EventKind string

const (
	EventPurchase          EventKind = "purchase"
	EventPhaseChange       EventKind = "phase_change"
	EventStake             EventKind = "stake"
	EventUnstake           EventKind = "unstake"
	EventClaim             EventKind = "claim"
	EventBonusClaim        EventKind = "bonus_claim"
	EventEmergencyWithdraw EventKind = "emergency_withdraw"
	EventAdminUpdate       EventKind = "admin_update"
)

// Event is an append-only ledger notification. Amount fields are decimal strings
// of 18-decimal base units so the payload survives JSON round trips intact.
type Event struct {
	Kind     EventKind `json:"kind"`
	Time     int64     `json:"time"`
	Account  string    `json:"account,omitempty"`
	Referrer string    `json:"referrer,omitempty"`
	Asset    string    `json:"asset,omitempty"`
	Amount   string    `json:"amount,omitempty"`
	Bonus    string    `json:"bonus,omitempty"`
	Cost     string    `json:"cost,omitempty"`
	Fee      string    `json:"fee,omitempty"`
	Phase    string    `json:"phase,omitempty"`
	Pool     string    `json:"pool,omitempty"`
	Index    int       `json:"index,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Sink receives ledger events. Emit is called after the triggering operation has
// committed its state, inside the same serialization boundary.
type Sink interface {
	Emit(ev Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}
