package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller's role or ownership does not allow the operation.
	ErrForbidden = errors.New("permission denied")
	// ErrAlreadyApplied is returned when a seeker applies to the same vacancy twice.
	ErrAlreadyApplied = errors.New("already applied")
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployer  Role = "employer"
	RoleJobSeeker Role = "job_seeker"
)

// ParseRole accepts the canonical role names and the short "seeker" alias.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleEmployer):
		return RoleEmployer, nil
	case string(RoleJobSeeker), "seeker", "jobseeker":
		return RoleJobSeeker, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Caller identifies who performs an operation. Scope checks are based on it.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanManage reports whether the caller may act on a record owned by ownerID.
func (c Caller) CanManage(ownerID uuid.UUID) bool {
	return c.IsAdmin() || (c.Role == RoleEmployer && c.ID == ownerID)
}

const (
	VacancyStatusOpen   = "open"
	VacancyStatusClosed = "closed"
	VacancyStatusDraft  = "draft"
)

const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// ValidateVacancyStatus accepts the known vacancy statuses. Empty means open.
func ValidateVacancyStatus(status string) error {
	switch status {
	case "", VacancyStatusOpen, VacancyStatusClosed, VacancyStatusDraft:
		return nil
	default:
		return fmt.Errorf("unknown vacancy status %q", status)
	}
}

// ValidateApplicationStatus accepts the statuses an owner can set during
// review. Withdrawing is done by deleting the application.
func ValidateApplicationStatus(status string) error {
	switch status {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return nil
	default:
		return fmt.Errorf("unknown application status %q", status)
	}
}

type Vacancy struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Requirements string    `json:"requirements"`
	Skills       []string  `json:"skills"`
	SalaryMin    int       `json:"salaryMin"`
	SalaryMax    int       `json:"salaryMax"`
	WorkType     string    `json:"workType"`
	Urgent       bool      `json:"urgent"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Application struct {
	ID          uuid.UUID `json:"id"`
	VacancyID   uuid.UUID `json:"vacancyId"`
	JobSeekerID uuid.UUID `json:"jobSeekerId"`
	Status      string    `json:"status"`
	MatchScore  *int      `json:"matchScore,omitempty"`
	AppliedAt   time.Time `json:"appliedAt"`
}

type Profile struct {
	UserID     uuid.UUID `json:"userId"`
	FullName   string    `json:"fullName"`
	Skills     []string  `json:"skills"`
	Experience string    `json:"experience"`
	Education  string    `json:"education"`
	Bio        string    `json:"bio"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Candidate is an application joined with the applicant's profile. The
// profile is empty when the applicant never filled it in.
type Candidate struct {
	Application Application `json:"application"`
	Profile     Profile     `json:"profile"`
}
