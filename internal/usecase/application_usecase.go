package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/events"
	"go-jobboard-backend/pkg/security"
)

type applicationUsecase struct {
	applications domain.ApplicationRepository
	postings     domain.PostingRepository
	publisher    events.Publisher
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	applications domain.ApplicationRepository,
	postings domain.PostingRepository,
	publisher events.Publisher,
) domain.ApplicationUsecase {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &applicationUsecase{applications: applications, postings: postings, publisher: publisher}
}

// normalizeAnswers accepts a JSON object or array; absent answers become {}.
func normalizeAnswers(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(trimmed) || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, apperror.BadRequest("Answers must be a JSON object or array")
	}
	return json.RawMessage(trimmed), nil
}

// Apply submits the student's application to an accepted posting. Each
// student may apply to a posting once.
func (uc *applicationUsecase) Apply(ctx context.Context, p *domain.Principal, input domain.ApplyInput) (*domain.Application, error) {
	if err := Check(p, RequireRole(domain.RoleStudent)); err != nil {
		return nil, err
	}
	answers, err := normalizeAnswers(input.Answers)
	if err != nil {
		return nil, err
	}

	// 1. Posting exists and is open
	posting, err := uc.postings.GetByID(ctx, input.PostID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Posting not found")
	}
	if err != nil {
		return nil, apperror.Store("posting.get", input.PostID, err)
	}
	if posting.Status != domain.PostingStatusAccepted {
		return nil, apperror.BadRequest("Posting is not open for applications")
	}

	// 2. No earlier application
	exists, err := uc.applications.Exists(ctx, posting.ID, p.ID)
	if err != nil {
		return nil, apperror.Store("application.exists", posting.ID, err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this posting")
	}

	// 3. Create, pinning the employer as of now
	app := &domain.Application{
		PostID:      posting.ID,
		ApplicantID: p.ID,
		EmployerID:  posting.EmployerID,
		Status:      domain.ApplicationStatusPending,
		Answers:     answers,
	}
	if err := uc.applications.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("You have already applied to this posting")
		}
		return nil, apperror.Store("application.create", posting.ID, err)
	}

	uc.publisher.Publish(ctx, events.New(events.ApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"posting_id":     app.PostID,
		"employer_id":    app.EmployerID,
	}))
	return app, nil
}

func (uc *applicationUsecase) ListSubmitted(ctx context.Context, p *domain.Principal) ([]domain.Application, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	apps, err := uc.applications.ListByApplicant(ctx, p.ID)
	if err != nil {
		return nil, apperror.Store("application.list_submitted", security.HashValue(p.ID), err)
	}
	return apps, nil
}

func (uc *applicationUsecase) ListReceived(ctx context.Context, p *domain.Principal) ([]domain.Application, error) {
	if err := Check(p, RequireRole(domain.RoleEmployer)); err != nil {
		return nil, err
	}
	apps, err := uc.applications.ListByEmployer(ctx, p.ID)
	if err != nil {
		return nil, apperror.Store("application.list_received", security.HashValue(p.ID), err)
	}
	return apps, nil
}

// SetStatus decides a pending application. Only the employer recorded on
// the application may do this, and only once.
func (uc *applicationUsecase) SetStatus(ctx context.Context, p *domain.Principal, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if err := uc.CheckOwner(ctx, p, id); err != nil {
		return nil, err
	}
	if !status.Terminal() {
		return nil, apperror.BadRequest("Status must be one of: accepted, rejected")
	}

	updated, err := uc.applications.Transition(ctx, id, status)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, apperror.NotFound("Application not found")
	case errors.Is(err, domain.ErrStateChanged):
		return nil, apperror.Conflict("Application has already been decided")
	case err != nil:
		return nil, apperror.Store("application.set_status", id, err)
	}

	uc.publisher.Publish(ctx, events.New(events.ApplicationStatusChanged, map[string]any{
		"application_id": updated.ID,
		"applicant_id":   updated.ApplicantID,
		"status":         updated.Status,
	}))
	return updated, nil
}

func (uc *applicationUsecase) CheckOwner(ctx context.Context, p *domain.Principal, id int64) error {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return err
	}
	app, err := uc.applications.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Application not found")
	}
	if err != nil {
		return apperror.Store("application.get", id, err)
	}
	return Check(p, OwnerOf(app.EmployerID))
}
