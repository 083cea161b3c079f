package usecase

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/events"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"
)

type postingUsecase struct {
	postings  domain.PostingRepository
	accounts  domain.AccountRepository
	publisher events.Publisher
	validate  *validator.Validate
}

func NewPostingUsecase(
	postings domain.PostingRepository,
	accounts domain.AccountRepository,
	publisher events.Publisher,
	validate *validator.Validate,
) domain.PostingUsecase {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &postingUsecase{postings: postings, accounts: accounts, publisher: publisher, validate: validate}
}

// Create files a new posting for moderation. The employer must have accepted
// every onboarding agreement first.
func (uc *postingUsecase) Create(ctx context.Context, p *domain.Principal, input domain.PostingInput) (*domain.Posting, error) {
	if err := Check(p, RequireRole(domain.RoleEmployer)); err != nil {
		return nil, err
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	owner, err := uc.accounts.GetByID(ctx, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Account not found")
	}
	if err != nil {
		return nil, apperror.Store("account.get", security.HashValue(p.ID), err)
	}
	if forms := owner.Profile.Forms.Employer; forms == nil || !forms.Complete() {
		return nil, apperror.IncompleteOnboarding()
	}

	posting := &domain.Posting{EmployerID: p.ID, Status: domain.PostingStatusPending}
	input.ApplyTo(posting)

	if err := uc.postings.Create(ctx, posting); err != nil {
		return nil, apperror.Store("posting.create", security.HashValue(p.ID), err)
	}
	return posting, nil
}

func (uc *postingUsecase) ListPublic(ctx context.Context) ([]domain.Posting, error) {
	postings, err := uc.postings.ListByStatus(ctx, domain.PostingStatusAccepted)
	if err != nil {
		return nil, apperror.Store("posting.list_public", nil, err)
	}
	return postings, nil
}

// GetPublic returns a posting only once it has been accepted.
func (uc *postingUsecase) GetPublic(ctx context.Context, id int64) (*domain.Posting, error) {
	posting, err := uc.postings.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && posting.Status != domain.PostingStatusAccepted) {
		return nil, apperror.NotFound("Posting not found")
	}
	if err != nil {
		return nil, apperror.Store("posting.get", id, err)
	}
	return posting, nil
}

func (uc *postingUsecase) ListPending(ctx context.Context, p *domain.Principal) ([]domain.Posting, error) {
	if err := Check(p, RequireRole(domain.RoleAdministrator)); err != nil {
		return nil, err
	}
	postings, err := uc.postings.ListByStatus(ctx, domain.PostingStatusPending)
	if err != nil {
		return nil, apperror.Store("posting.list_pending", nil, err)
	}
	return postings, nil
}

func (uc *postingUsecase) ListOwned(ctx context.Context, p *domain.Principal) ([]domain.Posting, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	postings, err := uc.postings.ListByEmployer(ctx, p.ID)
	if err != nil {
		return nil, apperror.Store("posting.list_owned", security.HashValue(p.ID), err)
	}
	return postings, nil
}

// Moderate accepts or rejects a pending posting. A posting is moderated once.
func (uc *postingUsecase) Moderate(ctx context.Context, p *domain.Principal, id int64, decision domain.Decision) (*domain.Posting, error) {
	if err := Check(p, RequireRole(domain.RoleAdministrator)); err != nil {
		return nil, err
	}
	to, ok := decision.Status()
	if !ok {
		return nil, apperror.BadRequest("Decision must be one of: accept, reject")
	}

	posting, err := uc.postings.Transition(ctx, id, domain.PostingStatusPending, to)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, apperror.NotFound("Posting not found")
	case errors.Is(err, domain.ErrStateChanged):
		return nil, apperror.Conflict("Posting has already been moderated")
	case err != nil:
		return nil, apperror.Store("posting.moderate", id, err)
	}

	uc.publisher.Publish(ctx, events.New(events.PostingModerated, map[string]any{
		"posting_id":  posting.ID,
		"employer_id": posting.EmployerID,
		"status":      posting.Status,
	}))
	return posting, nil
}

// Update rewrites the content of a posting owned by the caller. Status is untouched.
func (uc *postingUsecase) Update(ctx context.Context, p *domain.Principal, id int64, input domain.PostingInput) (*domain.Posting, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}

	existing, err := uc.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	updated := *existing
	input.ApplyTo(&updated)
	err = uc.postings.UpdateContent(ctx, &updated)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Posting not found")
	}
	if err != nil {
		return nil, apperror.Store("posting.update", id, err)
	}
	return &updated, nil
}

// Delete removes a posting and every application against it.
func (uc *postingUsecase) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return err
	}
	if _, err := uc.loadOwned(ctx, p, id); err != nil {
		return err
	}

	removed, err := uc.postings.DeleteCascade(ctx, id, p.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Posting not found")
	case errors.Is(err, domain.ErrNotOwner):
		return apperror.Forbidden("You do not own this resource")
	case err != nil:
		return apperror.Store("posting.delete", id, err)
	}

	uc.publisher.Publish(ctx, events.New(events.PostingDeleted, map[string]any{
		"posting_id":           id,
		"applications_removed": removed,
	}))
	return nil
}

func (uc *postingUsecase) CheckOwner(ctx context.Context, p *domain.Principal, id int64) error {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return err
	}
	_, err := uc.loadOwned(ctx, p, id)
	return err
}

func (uc *postingUsecase) loadOwned(ctx context.Context, p *domain.Principal, id int64) (*domain.Posting, error) {
	posting, err := uc.postings.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Posting not found")
	}
	if err != nil {
		return nil, apperror.Store("posting.get", id, err)
	}
	if err := Check(p, OwnerOf(posting.EmployerID)); err != nil {
		return nil, err
	}
	return posting, nil
}
