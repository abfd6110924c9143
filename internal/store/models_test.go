package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	cases := map[string]Role{
		"admin":      RoleAdmin,
		" Employer ": RoleEmployer,
		"job_seeker": RoleJobSeeker,
		"seeker":     RoleJobSeeker,
	}
	for input, expect := range cases {
		got, err := ParseRole(input)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", input, err)
		}
		if got != expect {
			t.Fatalf("ParseRole(%q) = %s, want %s", input, got, expect)
		}
	}

	if _, err := ParseRole("guest"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestCallerCanManage(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		caller Caller
		expect bool
	}{
		{name: "owner", caller: Caller{ID: owner, Role: RoleEmployer}, expect: true},
		{name: "other employer", caller: Caller{ID: other, Role: RoleEmployer}, expect: false},
		{name: "admin", caller: Caller{ID: other, Role: RoleAdmin}, expect: true},
		{name: "seeker with same id", caller: Caller{ID: owner, Role: RoleJobSeeker}, expect: false},
	}

	for _, tc := range cases {
		if got := tc.caller.CanManage(owner); got != tc.expect {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expect, got)
		}
	}
}

func TestCheckVacancyScope(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	open := Vacancy{ID: uuid.New(), OwnerID: owner, Status: VacancyStatusOpen}
	closed := Vacancy{ID: uuid.New(), OwnerID: owner, Status: VacancyStatusClosed}

	cases := []struct {
		name    string
		caller  Caller
		vacancy Vacancy
		expect  error
	}{
		{name: "seeker open", caller: Caller{ID: uuid.New(), Role: RoleJobSeeker}, vacancy: open},
		{name: "seeker closed", caller: Caller{ID: uuid.New(), Role: RoleJobSeeker}, vacancy: closed, expect: ErrNotFound},
		{name: "owner closed", caller: Caller{ID: owner, Role: RoleEmployer}, vacancy: closed},
		{name: "foreign employer", caller: Caller{ID: uuid.New(), Role: RoleEmployer}, vacancy: open, expect: ErrForbidden},
		{name: "admin", caller: Caller{ID: uuid.New(), Role: RoleAdmin}, vacancy: closed},
		{name: "no role", caller: Caller{ID: uuid.New()}, vacancy: open, expect: ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := checkVacancyScope(tc.caller, tc.vacancy)
			if tc.expect == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tc.expect != nil && !errors.Is(err, tc.expect) {
				t.Fatalf("expected %v, got %v", tc.expect, err)
			}
		})
	}
}

func TestNormalizeVacancy(t *testing.T) {
	v := normalizeVacancy(Vacancy{Title: "  Go Developer ", Skills: []string{" Go", "", "SQL "}})

	if v.Title != "Go Developer" {
		t.Fatalf("unexpected title: %q", v.Title)
	}
	if v.Status != VacancyStatusOpen {
		t.Fatalf("expected default status open, got %q", v.Status)
	}
	if len(v.Skills) != 2 || v.Skills[0] != "Go" || v.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills: %v", v.Skills)
	}
}

func TestValidateStatuses(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"", VacancyStatusOpen, VacancyStatusClosed, VacancyStatusDraft} {
		if err := ValidateVacancyStatus(status); err != nil {
			t.Fatalf("vacancy status %q rejected: %v", status, err)
		}
	}
	if err := ValidateVacancyStatus("archived"); err == nil {
		t.Fatal("expected unknown vacancy status to be rejected")
	}

	for _, status := range []string{ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected} {
		if err := ValidateApplicationStatus(status); err != nil {
			t.Fatalf("application status %q rejected: %v", status, err)
		}
	}
	for _, status := range []string{"", ApplicationStatusWithdrawn, "hired"} {
		if err := ValidateApplicationStatus(status); err == nil {
			t.Fatalf("expected application status %q to be rejected", status)
		}
	}
}
