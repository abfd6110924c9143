package cmd

import (
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spigell/jobboard-ai/internal/store"
)

func newVacancyCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	c := &cobra.Command{Use: "test"}
	addIdentityFlags(c, string(store.RoleEmployer))
	addVacancyFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return c
}

func TestCallerFromFlags(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	cases := []struct {
		name    string
		args    []string
		expect  store.Caller
		wantErr bool
	}{
		{name: "default role", args: []string{"--as", id.String()}, expect: store.Caller{ID: id, Role: store.RoleEmployer}},
		{name: "admin", args: []string{"--as", id.String(), "--role", "admin"}, expect: store.Caller{ID: id, Role: store.RoleAdmin}},
		{name: "bad id", args: []string{"--as", "42"}, wantErr: true},
		{name: "bad role", args: []string{"--as", id.String(), "--role", "guest"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := callerFromFlags(newVacancyCommand(t, tc.args...))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got caller %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expect {
				t.Fatalf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestApplyVacancyFlagsKeepsUnsetFields(t *testing.T) {
	current := store.Vacancy{
		Title:     "Go Developer",
		Company:   "Uzum",
		Skills:    []string{"Go"},
		SalaryMin: 1000,
		SalaryMax: 2000,
		Status:    store.VacancyStatusOpen,
	}

	c := newVacancyCommand(t, "--as", uuid.NewString(), "--title", "Senior Go Developer", "--urgent", "--skills", "Go,PostgreSQL")
	got, err := applyVacancyFlags(c, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "Senior Go Developer" || !got.Urgent {
		t.Fatalf("expected changed flags to apply, got %+v", got)
	}
	if got.Company != "Uzum" || got.SalaryMin != 1000 || got.SalaryMax != 2000 || got.Status != store.VacancyStatusOpen {
		t.Fatalf("expected unset fields to stay, got %+v", got)
	}
	if len(got.Skills) != 2 || got.Skills[1] != "PostgreSQL" {
		t.Fatalf("unexpected skills: %v", got.Skills)
	}
}

func TestApplyVacancyFlagsValidation(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"inverted salary": {"--salary-min", "3000", "--salary-max", "1000"},
		"negative salary": {"--salary-min", "-1"},
		"unknown status":  {"--status", "archived"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newVacancyCommand(t, append([]string{"--as", uuid.NewString()}, args...)...)
			if _, err := applyVacancyFlags(c, store.Vacancy{Title: "x"}); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
