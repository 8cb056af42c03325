package models

import "testing"

func TestRequestStatus_Valid(t *testing.T) {
	for _, status := range []RequestStatus{StatusPending, StatusApproved, StatusRejected} {
		if !status.Valid() {
			t.Errorf("%s.Valid() = false, want true", status)
		}
	}
	if RequestStatus("MAYBE").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestRequestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("PENDING reported terminal")
	}
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Error("decided statuses must be terminal")
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("STUDENT"); !ok || role != RoleStudent {
		t.Errorf("ParseRole(STUDENT) = %v, %v", role, ok)
	}
	if role, ok := ParseRole("INSTRUCTOR"); !ok || role != RoleInstructor {
		t.Errorf("ParseRole(INSTRUCTOR) = %v, %v", role, ok)
	}
	if _, ok := ParseRole("ADMIN"); ok {
		t.Error("ParseRole(ADMIN) accepted")
	}
	if _, ok := ParseRole("student"); ok {
		t.Error("ParseRole must not accept lower case, callers normalize first")
	}
}
