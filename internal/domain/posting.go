package domain

import (
	"context"
	"time"
)

type PostingStatus string

const (
	PostingStatusPending  PostingStatus = "Pending"
	PostingStatusAccepted PostingStatus = "Accepted"
	PostingStatusRejected PostingStatus = "Rejected"
)

// Decision is an administrator's moderation verdict.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Status maps a decision to the posting status it produces.
func (d Decision) Status() (PostingStatus, bool) {
	switch d {
	case DecisionAccept:
		return PostingStatusAccepted, true
	case DecisionReject:
		return PostingStatusRejected, true
	}
	return "", false
}

type Posting struct {
	ID          int64         `json:"id"`
	EmployerID  string        `json:"employer_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Documents   []string      `json:"documents"`
	Tips        []string      `json:"tips"`
	Skills      []string      `json:"skills"`
	Experience  string        `json:"experience"`
	JobType     string        `json:"jobtype"`
	Location    string        `json:"location"`
	Questions   string        `json:"questions"`
	CompanyName string        `json:"company_name"`
	Status      PostingStatus `json:"status"`
	Date        time.Time     `json:"date"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PostingInput is the employer-editable content of a posting.
type PostingInput struct {
	Title       string   `json:"title" binding:"required" validate:"required,max=200"`
	Description string   `json:"description" binding:"required" validate:"required,max=10000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	Documents   []string `json:"documents" validate:"max=20,dive,max=200"`
	Tips        []string `json:"tips" validate:"max=20,dive,max=500"`
	Skills      []string `json:"skills" validate:"max=30,dive,max=100"`
	Experience  string   `json:"experience" validate:"max=200"`
	JobType     string   `json:"jobtype" validate:"max=100"`
	Location    string   `json:"location" validate:"max=200"`
	Questions   string   `json:"questions" validate:"max=5000"`
	CompanyName string   `json:"company_name" validate:"max=200"`
}

// ApplyTo overwrites the content fields of p, leaving ownership and status alone.
func (in PostingInput) ApplyTo(p *Posting) {
	p.Title = in.Title
	p.Description = in.Description
	p.Tags = nonNil(in.Tags)
	p.Documents = nonNil(in.Documents)
	p.Tips = nonNil(in.Tips)
	p.Skills = nonNil(in.Skills)
	p.Experience = in.Experience
	p.JobType = in.JobType
	p.Location = in.Location
	p.Questions = in.Questions
	p.CompanyName = in.CompanyName
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type PostingRepository interface {
	Create(ctx context.Context, posting *Posting) error
	GetByID(ctx context.Context, id int64) (*Posting, error)
	ListByStatus(ctx context.Context, status PostingStatus) ([]Posting, error)
	ListByEmployer(ctx context.Context, employerID string) ([]Posting, error)
	// UpdateContent rewrites content fields where id and employer_id both match.
	UpdateContent(ctx context.Context, posting *Posting) error
	// Transition moves a posting from one status to another, returning
	// ErrStateChanged when it is no longer in the from status.
	Transition(ctx context.Context, id int64, from, to PostingStatus) (*Posting, error)
	// DeleteCascade removes the posting and its applications atomically and
	// returns how many applications went with it.
	DeleteCascade(ctx context.Context, id int64, employerID string) (int64, error)
}

type PostingUsecase interface {
	Create(ctx context.Context, p *Principal, input PostingInput) (*Posting, error)
	ListPublic(ctx context.Context) ([]Posting, error)
	GetPublic(ctx context.Context, id int64) (*Posting, error)
	ListPending(ctx context.Context, p *Principal) ([]Posting, error)
	ListOwned(ctx context.Context, p *Principal) ([]Posting, error)
	Moderate(ctx context.Context, p *Principal, id int64, decision Decision) (*Posting, error)
	Update(ctx context.Context, p *Principal, id int64, input PostingInput) (*Posting, error)
	Delete(ctx context.Context, p *Principal, id int64) error
	// CheckOwner returns Forbidden unless the caller owns posting id.
	CheckOwner(ctx context.Context, p *Principal, id int64) error
}
