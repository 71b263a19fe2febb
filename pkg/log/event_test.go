package log

import "testing"

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategorySubscription, "SUBSCRIPTION"},
		{CategorySignal, "SIGNAL"},
		{CategoryDelivery, "DELIVERY"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonConstruct, "CONSTRUCT"},
		{ReasonExplicit, "EXPLICIT"},
		{ReasonClose, "CLOSE"},
		{ReasonCleanup, "CLEANUP"},
		{Reason(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.reason.String()
		if got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeDelivered, "DELIVERED"},
		{OutcomeDroppedClosed, "DROPPED_CLOSED"},
		{OutcomeDroppedDelegate, "DROPPED_DELEGATE"},
		{Outcome(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.outcome.String()
		if got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
