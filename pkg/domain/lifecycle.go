package domain

// Status is a contract's lifecycle state.
type Status string

const (
	StatusCreated  Status = "created"
	StatusApproved Status = "approved"
	StatusSent     Status = "sent"
	StatusSigned   Status = "signed"
	StatusLocked   Status = "locked"
	StatusRevoked  Status = "revoked"
)

// AllStatuses lists every lifecycle state, in graph order.
var AllStatuses = []Status{
	StatusCreated,
	StatusApproved,
	StatusSent,
	StatusSigned,
	StatusLocked,
	StatusRevoked,
}

// transitions is the fixed lifecycle graph. locked and revoked are terminal.
var transitions = map[Status][]Status{
	StatusCreated:  {StatusApproved, StatusRevoked},
	StatusApproved: {StatusSent, StatusRevoked},
	StatusSent:     {StatusSigned, StatusRevoked},
	StatusSigned:   {StatusLocked},
	StatusLocked:   {},
	StatusRevoked:  {},
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// IsValidTransition reports whether to is in the outgoing-edge set of from.
func IsValidTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidNextStates returns the outgoing edges of from. The returned slice is
// a copy; callers may reorder it.
func ValidNextStates(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsImmutable reports whether s rejects both field updates and further
// transitions.
func IsImmutable(s Status) bool {
	return s == StatusLocked || s == StatusRevoked
}

// Category is a display grouping over statuses used by list filters and
// stats rollups. It has no bearing on the transition graph.
type Category string

const (
	CategoryActive  Category = "active"
	CategoryPending Category = "pending"
	CategorySigned  Category = "signed"
	CategoryRevoked Category = "revoked"
)

// CategoryStatuses maps each category to the statuses it buckets.
// approved counts as pending, and locked counts as signed.
var CategoryStatuses = map[Category][]Status{
	CategoryActive:  {StatusSent},
	CategoryPending: {StatusCreated, StatusApproved},
	CategorySigned:  {StatusSigned, StatusLocked},
	CategoryRevoked: {StatusRevoked},
}
