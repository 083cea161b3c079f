package usecase

import (
	"context"
	"errors"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"
)

// Requirement is a predicate over the authenticated caller.
type Requirement func(p *domain.Principal) error

func AnyAuthenticated() Requirement {
	return func(*domain.Principal) error { return nil }
}

// RequireRole passes when the caller has one of roles.
func RequireRole(roles ...domain.Role) Requirement {
	return func(p *domain.Principal) error {
		for _, r := range roles {
			if p.Role == r {
				return nil
			}
		}
		return apperror.Forbidden("This action requires a different account type")
	}
}

// OwnerOf passes when the caller's identifier equals ownerID.
func OwnerOf(ownerID string) Requirement {
	return func(p *domain.Principal) error {
		if ownerID == "" || p.ID != ownerID {
			return apperror.Forbidden("You do not own this resource")
		}
		return nil
	}
}

// Check applies reqs in order. A nil principal is a missing credential.
func Check(p *domain.Principal, reqs ...Requirement) error {
	if p == nil || p.ID == "" {
		return apperror.MissingCredential()
	}
	for _, req := range reqs {
		if err := req(p); err != nil {
			return err
		}
	}
	return nil
}

// Guard turns an Authorization header into a Principal.
type Guard struct {
	accounts domain.AccountRepository
	tokens   *token.Issuer
	audit    *security.SecurityLogger
}

func NewGuard(accounts domain.AccountRepository, tokens *token.Issuer, audit *security.SecurityLogger) *Guard {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &Guard{accounts: accounts, tokens: tokens, audit: audit}
}

// BearerToken strips the scheme from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer"
	if len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) &&
		(len(header) == len(scheme) || header[len(scheme)] == ' ') {
		header = header[len(scheme):]
	}
	return strings.TrimSpace(header)
}

// Authorize resolves the caller and checks reqs before any work is done on
// their behalf.
func (g *Guard) Authorize(ctx context.Context, header string, reqs ...Requirement) (*domain.Principal, error) {
	raw := BearerToken(header)
	if raw == "" {
		return nil, apperror.MissingCredential()
	}

	p, err := g.resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := g.Check(ctx, p, reqs...); err != nil {
		return nil, err
	}
	return p, nil
}

// Check applies reqs to an already resolved caller and records refusals.
func (g *Guard) Check(ctx context.Context, p *domain.Principal, reqs ...Requirement) error {
	if err := Check(p, reqs...); err != nil {
		if p != nil {
			g.audit.LogForbidden(ctx, p.ID, err.Error())
		}
		return err
	}
	return nil
}

func (g *Guard) resolve(ctx context.Context, raw string) (*domain.Principal, error) {
	if token.LooksSigned(raw) {
		if !g.tokens.Enabled() {
			return nil, apperror.InvalidCredential()
		}
		claims, err := g.tokens.Parse(raw)
		if err != nil {
			return nil, apperror.InvalidCredential()
		}
		role := domain.Role(claims.Role)
		if !role.Valid() {
			return nil, apperror.InvalidCredential()
		}
		return &domain.Principal{ID: claims.Subject, Role: role}, nil
	}

	account, err := g.accounts.GetByID(ctx, raw)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.InvalidCredential()
	}
	if err != nil {
		return nil, apperror.Store("account.resolve", security.HashValue(raw), err)
	}
	if account.Status != domain.AccountStatusActive {
		return nil, apperror.Forbidden("Account is " + string(account.Status))
	}
	return &domain.Principal{ID: account.ID, Role: account.Role}, nil
}
