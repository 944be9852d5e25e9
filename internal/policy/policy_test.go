package policy

import (
	"errors"
	"testing"

	"server/internal/domain"
)

func TestCanCreateTodoFreeTier(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{name: "no todos", count: 0, want: true},
		{name: "one below cap", count: 2, want: true},
		{name: "at cap", count: 3, want: false},
		{name: "over cap", count: 7, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CanCreateTodo(false, tc.count)
			if got.Allowed != tc.want {
				t.Fatalf("CanCreateTodo(false, %d).Allowed = %v, want %v", tc.count, got.Allowed, tc.want)
			}
			if !tc.want && got.Reason != ReasonQuotaExceeded {
				t.Fatalf("denial reason = %q, want %q", got.Reason, ReasonQuotaExceeded)
			}
		})
	}
}

func TestCanCreateTodoSubscribedNeverCapped(t *testing.T) {
	for _, count := range []int{0, 3, 100} {
		got := CanCreateTodo(true, count)
		if !got.Allowed {
			t.Fatalf("CanCreateTodo(true, %d) denied with reason %q", count, got.Reason)
		}
	}
}

func TestAuthorizeAdminAllowsEverything(t *testing.T) {
	actions := []Action{ActionRead, ActionReadAll, ActionUpdate, ActionDelete}
	for _, action := range actions {
		got := Authorize(domain.RoleAdmin, "admin-1", "someone-else", action)
		if !got.Allowed {
			t.Fatalf("Authorize(admin, %q) denied", action)
		}
	}
}

func TestAuthorizeMemberOwnershipRule(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		ownerID string
		action  Action
		want    bool
	}{
		{name: "owner read", actorID: "u1", ownerID: "u1", action: ActionRead, want: true},
		{name: "owner update", actorID: "u1", ownerID: "u1", action: ActionUpdate, want: true},
		{name: "owner delete", actorID: "u1", ownerID: "u1", action: ActionDelete, want: true},
		{name: "stranger read", actorID: "u1", ownerID: "u2", action: ActionRead, want: false},
		{name: "stranger update", actorID: "u1", ownerID: "u2", action: ActionUpdate, want: false},
		{name: "stranger delete", actorID: "u1", ownerID: "u2", action: ActionDelete, want: false},
		{name: "empty actor never matches", actorID: "", ownerID: "", action: ActionUpdate, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Authorize(domain.RoleMember, tc.actorID, tc.ownerID, tc.action)
			if got.Allowed != tc.want {
				t.Fatalf("Authorize(member, %q, %q, %q).Allowed = %v, want %v",
					tc.actorID, tc.ownerID, tc.action, got.Allowed, tc.want)
			}
			if !tc.want && got.Reason != ReasonForbidden {
				t.Fatalf("denial reason = %q, want %q", got.Reason, ReasonForbidden)
			}
		})
	}
}

func TestAuthorizeReadAllAdminOnly(t *testing.T) {
	if got := Authorize(domain.RoleMember, "u1", "u1", ActionReadAll); got.Allowed {
		t.Fatal("member must not list all todos, even their own id as owner")
	}
	if got := Authorize(domain.RoleAdmin, "a1", "", ActionReadAll); !got.Allowed {
		t.Fatal("admin must be allowed to list all todos")
	}
}

func TestDecisionErr(t *testing.T) {
	if err := allow().Err(); err != nil {
		t.Fatalf("allow().Err() = %v, want nil", err)
	}
	if err := deny(ReasonQuotaExceeded).Err(); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("quota denial maps to %v, want ErrQuotaExceeded", err)
	}
	if err := deny(ReasonForbidden).Err(); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("forbidden denial maps to %v, want ErrForbidden", err)
	}
}
