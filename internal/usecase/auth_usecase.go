package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/credential"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"
	"go-jobboard-backend/pkg/validation"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	Dummy() string
}

// LoginTracker counts failed logins; see security.LoginTracker.
type LoginTracker interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email, requestID string) (bool, error)
	Clear(ctx context.Context, email string) error
}

type authUsecase struct {
	accounts domain.AccountRepository
	hasher   PasswordHasher
	tokens   *token.Issuer
	tracker  LoginTracker
	audit    *security.SecurityLogger
	validate *validator.Validate

	allowAdminSignup bool

	dummyOnce sync.Once
	dummy     string
}

func NewAuthUsecase(
	accounts domain.AccountRepository,
	hasher PasswordHasher,
	tokens *token.Issuer,
	tracker LoginTracker,
	audit *security.SecurityLogger,
	validate *validator.Validate,
	opts ...AuthOption,
) domain.AuthUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	uc := &authUsecase{
		accounts:         accounts,
		hasher:           hasher,
		tokens:           tokens,
		tracker:          tracker,
		audit:            audit,
		validate:         validate,
		allowAdminSignup: true,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type AuthOption func(*authUsecase)

// WithAdminRegistration controls whether Register accepts the administrator role.
func WithAdminRegistration(allowed bool) AuthOption {
	return func(uc *authUsecase) { uc.allowAdminSignup = allowed }
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashError(err error) error {
	if errors.Is(err, credential.ErrConfiguration) {
		return apperror.Configuration(err)
	}
	return apperror.Internal(err)
}

func (uc *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	if input.Role == domain.RoleAdministrator && !uc.allowAdminSignup {
		return nil, apperror.Forbidden("Administrator accounts cannot be self-registered")
	}

	_, err := uc.accounts.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, apperror.DuplicateEmail()
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Store("account.get_by_email", security.MaskEmail(input.Email), err)
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, hashError(err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Profile:      domain.DefaultProfile(input.Role),
		Status:       domain.AccountStatusActive,
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		// Lost a race with a concurrent registration of the same email
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.DuplicateEmail()
		}
		return nil, apperror.Store("account.create", account.ID, err)
	}

	uc.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventRegistered,
		SubjectType:  "account",
		SubjectValue: security.HashValue(account.ID),
		Details:      map[string]interface{}{"role": string(account.Role)},
	})

	return uc.session(account)
}

func (uc *authUsecase) dummyHash() string {
	uc.dummyOnce.Do(func() { uc.dummy = uc.hasher.Dummy() })
	return uc.dummy
}

func (uc *authUsecase) Authenticate(ctx context.Context, input domain.LoginInput, meta domain.LoginMeta) (*domain.Session, error) {
	email := normalizeEmail(input.Email)

	blocked, err := uc.tracker.IsBlocked(ctx, email)
	if err != nil {
		logger.L().Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		uc.audit.LogLoginBlocked(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	account, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Store("account.get_by_email", security.MaskEmail(email), err)
	}

	encoded := uc.dummyHash()
	if account != nil {
		encoded = account.PasswordHash
	}

	ok, err := uc.hasher.Verify(input.Password, encoded)
	if err != nil {
		if errors.Is(err, credential.ErrConfiguration) {
			return nil, apperror.Configuration(err)
		}
		// An undecodable stored hash never authenticates
		logger.L().Error("password verify failed", "error", err)
		ok = false
	}

	if account == nil || !ok {
		uc.recordFailure(ctx, email, meta)
		return nil, apperror.AuthFailure()
	}

	if account.Status != domain.AccountStatusActive {
		uc.audit.LogForbidden(ctx, account.ID, "login on "+string(account.Status)+" account")
		return nil, apperror.Forbidden("Account is " + string(account.Status))
	}

	if err := uc.tracker.Clear(ctx, email); err != nil {
		logger.L().Warn("failed to clear login attempts", "error", err)
	}

	now := time.Now().UTC()
	if err := uc.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		logger.L().Warn("failed to update last login", "error", err)
	} else {
		account.LastLogin = &now
	}

	uc.audit.LogLoginSuccess(ctx, account.ID, meta.IP, meta.RequestID)
	return uc.session(account)
}

func (uc *authUsecase) recordFailure(ctx context.Context, email string, meta domain.LoginMeta) {
	uc.audit.LogLoginFailed(ctx, email, meta.IP, meta.UserAgent, meta.RequestID, "invalid_credentials")
	if _, err := uc.tracker.RecordFailure(ctx, email, meta.RequestID); err != nil {
		logger.L().Warn("failed to record login failure", "error", err)
	}
}

func (uc *authUsecase) Resolve(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accounts.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Account not found")
	}
	if err != nil {
		return nil, apperror.Store("account.get", security.HashValue(id), err)
	}
	return account, nil
}

func (uc *authUsecase) session(account *domain.Account) (*domain.Session, error) {
	s := &domain.Session{Account: account, ID: account.ID, Role: account.Role}
	if uc.tokens.Enabled() {
		signed, exp, err := uc.tokens.Issue(account.ID, string(account.Role))
		if err != nil {
			return nil, apperror.Internal(err)
		}
		unix := exp.Unix()
		s.AccessToken, s.ExpiresAt = signed, &unix
	}
	return s, nil
}
