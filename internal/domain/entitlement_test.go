package domain

import (
	"testing"
	"time"
)

func TestEntitlementState_Effective(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		state EntitlementState
		want  bool
	}{
		{
			name:  "not premium",
			state: EntitlementState{Premium: false},
			want:  false,
		},
		{
			name:  "premium without expiry",
			state: EntitlementState{Premium: true},
			want:  true,
		},
		{
			name:  "premium with future expiry",
			state: EntitlementState{Premium: true, ExpiresAt: &future},
			want:  true,
		},
		{
			// Stored flag stays true but the derived truth is false.
			name:  "premium with past expiry",
			state: EntitlementState{Premium: true, ExpiresAt: &past},
			want:  false,
		},
		{
			name:  "expiry exactly now",
			state: EntitlementState{Premium: true, ExpiresAt: &now},
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.state.Effective(now); got != tt.want {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntitlement_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !(Entitlement{Kind: SubscriptionKindLifetime}).Valid(now) {
		t.Error("perpetual grant should always be valid")
	}
	if !(Entitlement{Kind: SubscriptionKindSubscription, ExpiresAt: &future}).Valid(now) {
		t.Error("unexpired subscription should be valid")
	}
	if (Entitlement{Kind: SubscriptionKindSubscription, ExpiresAt: &past}).Valid(now) {
		t.Error("expired subscription should not be valid")
	}
}
