package schema

// ClearingStatus is the lifecycle state of a transaction. Rows advance
// UNCOMMITTED -> NONE -> CLEARED -> RECONCILED; VOID is a terminal
// cancellation reachable from any state except RECONCILED.
type ClearingStatus string

const (
	StatusUncommitted ClearingStatus = "UNCOMMITTED"
	StatusNone        ClearingStatus = "NONE"
	StatusCleared     ClearingStatus = "CLEARED"
	StatusReconciled  ClearingStatus = "RECONCILED"
	StatusVoid        ClearingStatus = "VOID"
)

var statusRank = map[ClearingStatus]int{
	StatusUncommitted: 0,
	StatusNone:        1,
	StatusCleared:     2,
	StatusReconciled:  3,
}

// Valid reports whether s is one of the known states.
func (s ClearingStatus) Valid() bool {
	if s == StatusVoid {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed. Forward
// moves along the chain are allowed (including skips, e.g. NONE -> RECONCILED);
// VOID is reachable from everything but RECONCILED and is terminal.
func (s ClearingStatus) CanTransitionTo(next ClearingStatus) bool {
	if !s.Valid() || !next.Valid() || s == next {
		return false
	}
	if s == StatusVoid {
		return false
	}
	if next == StatusVoid {
		return s != StatusReconciled
	}
	return statusRank[next] > statusRank[s]
}
