package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"
)

type accountUsecase struct {
	accounts domain.AccountRepository
}

func NewAccountUsecase(accounts domain.AccountRepository) domain.AccountUsecase {
	return &accountUsecase{accounts: accounts}
}

func (uc *accountUsecase) Me(ctx context.Context, p *domain.Principal) (*domain.Account, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}
	account, err := uc.accounts.GetByID(ctx, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Account not found")
	}
	if err != nil {
		return nil, apperror.Store("account.get", security.HashValue(p.ID), err)
	}
	return account, nil
}

// UpdateAgreements merges the provided flags into the employer's forms.
func (uc *accountUsecase) UpdateAgreements(ctx context.Context, p *domain.Principal, update domain.AgreementUpdate) (*domain.Profile, error) {
	if err := Check(p, RequireRole(domain.RoleEmployer)); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, apperror.BadRequest("At least one agreement flag is required")
	}

	return uc.modify(ctx, p, func(a *domain.Account) error {
		if a.Role != domain.RoleEmployer {
			return apperror.Forbidden("Only employers have agreements")
		}
		if a.Profile.Forms.Employer == nil {
			a.Profile.Forms.Employer = &domain.EmployerForms{}
		}
		a.Profile.Forms.Employer.Apply(update)
		return nil
	})
}

// SetTask marks the checklist entry at index done or not done.
func (uc *accountUsecase) SetTask(ctx context.Context, p *domain.Principal, index int, done bool) (*domain.Profile, error) {
	if err := Check(p, AnyAuthenticated()); err != nil {
		return nil, err
	}

	return uc.modify(ctx, p, func(a *domain.Account) error {
		if index < 0 || index >= len(a.Profile.Tasks) {
			return apperror.BadRequest("Task index out of range")
		}
		a.Profile.Tasks[index].Done = done
		return nil
	})
}

func (uc *accountUsecase) modify(ctx context.Context, p *domain.Principal, fn func(*domain.Account) error) (*domain.Profile, error) {
	account, err := uc.accounts.ModifyProfile(ctx, p.ID, func(a *domain.Account) error {
		if err := fn(a); err != nil {
			return err
		}
		if err := a.Profile.Validate(a.Role); err != nil {
			return apperror.BadRequest(err.Error())
		}
		return nil
	})
	if err == nil {
		return &account.Profile, nil
	}

	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return nil, appErr
	case errors.Is(err, domain.ErrNotFound):
		return nil, apperror.NotFound("Account not found")
	}
	return nil, apperror.Store("account.modify_profile", security.HashValue(p.ID), err)
}

func (uc *accountUsecase) Directory(ctx context.Context) ([]domain.DirectoryEntry, error) {
	entries, err := uc.accounts.ListDirectory(ctx)
	if err != nil {
		return nil, apperror.Store("account.directory", nil, err)
	}
	return entries, nil
}

func (uc *accountUsecase) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := uc.accounts.Stats(ctx)
	if err != nil {
		return nil, apperror.Store("account.stats", nil, err)
	}
	return stats, nil
}
