package domain

// SessionStatus represents the lifecycle state of a play session.
//
// PAUSED is distinct from COMPLETED even though both carry an ended_at
// timestamp: a paused session can be resumed and is still a restore
// candidate after a relaunch, a completed one is not.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusPaused    SessionStatus = "PAUSED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusAbandoned SessionStatus = "ABANDONED"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusPaused, SessionStatusCompleted, SessionStatusAbandoned:
		return true
	}
	return false
}

// SubscriptionKind distinguishes time-limited grants from perpetual ones.
type SubscriptionKind string

const (
	SubscriptionKindSubscription SubscriptionKind = "SUBSCRIPTION"
	SubscriptionKindLifetime     SubscriptionKind = "LIFETIME"
)

func (k SubscriptionKind) String() string { return string(k) }

func (k SubscriptionKind) IsValid() bool {
	switch k {
	case SubscriptionKindSubscription, SubscriptionKindLifetime:
		return true
	}
	return false
}
