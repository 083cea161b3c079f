package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"
)

type adminUsecase struct {
	accounts domain.AccountRepository
	audit    *security.SecurityLogger
}

func NewAdminUsecase(accounts domain.AccountRepository, audit *security.SecurityLogger) domain.AdminUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &adminUsecase{accounts: accounts, audit: audit}
}

// SetAccountStatus activates, deactivates or suspends an account.
func (uc *adminUsecase) SetAccountStatus(ctx context.Context, p *domain.Principal, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	if err := Check(p, RequireRole(domain.RoleAdministrator)); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperror.BadRequest("Status must be one of: active, inactive, suspended")
	}
	if accountID == p.ID {
		return nil, apperror.BadRequest("Administrators cannot change their own status")
	}

	err := uc.accounts.UpdateStatus(ctx, accountID, status)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Account not found")
	}
	if err != nil {
		return nil, apperror.Store("account.update_status", security.HashValue(accountID), err)
	}

	uc.audit.LogAccountStatusChanged(ctx, p.ID, accountID, string(status))

	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.Store("account.get", security.HashValue(accountID), err)
	}
	return account, nil
}
