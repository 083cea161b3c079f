package domain

import (
	"context"
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether s is an allowed target of an employer decision.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Application is a student's submission against a posting. EmployerID is
// copied from the posting when the application is created.
type Application struct {
	ID          int64             `json:"id"`
	PostID      int64             `json:"post_id"`
	ApplicantID string            `json:"applicant_id"`
	EmployerID  string            `json:"employer_id"`
	Status      ApplicationStatus `json:"status"`
	Answers     json.RawMessage   `json:"answers"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Joined data for list responses
	PostTitle   *string    `json:"post_title,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	Applicant   *Applicant `json:"applicant,omitempty"`
}

type Applicant struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ApplyInput struct {
	PostID  int64           `json:"post_id" binding:"required"`
	Answers json.RawMessage `json:"answers"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	Exists(ctx context.Context, postID int64, applicantID string) (bool, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	ListByEmployer(ctx context.Context, employerID string) ([]Application, error)
	// Transition moves a pending application to status, returning
	// ErrStateChanged if it was already decided.
	Transition(ctx context.Context, id int64, status ApplicationStatus) (*Application, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, p *Principal, input ApplyInput) (*Application, error)
	ListSubmitted(ctx context.Context, p *Principal) ([]Application, error)
	ListReceived(ctx context.Context, p *Principal) ([]Application, error)
	SetStatus(ctx context.Context, p *Principal, id int64, status ApplicationStatus) (*Application, error)
	// CheckOwner returns Forbidden unless the caller is the employer on application id.
	CheckOwner(ctx context.Context, p *Principal, id int64) error
}
