package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleStudent       Role = "student"
	RoleEmployer      Role = "employer"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleAdministrator:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusInactive  AccountStatus = "inactive"
	AccountStatusSuspended AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusSuspended:
		return true
	}
	return false
}

// Account is a registered user. ID doubles as the permanent bearer credential.
type Account struct {
	ID           string        `json:"uuid"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"account_type"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Profile      Profile       `json:"profile"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
}

func (a *Account) DisplayName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID   string `json:"uuid"`
	Role Role   `json:"account_type"`
}

// DirectoryEntry is the public view of an account.
type DirectoryEntry struct {
	ID        string `json:"uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   string `json:"pfp"`
	Role      Role   `json:"account_type"`
}

type Stats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalEmployers   int64 `json:"total_employers"`
	AcceptedPostings int64 `json:"accepted_postings"`
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required" validate:"required,email,max=254"`
	Password  string `json:"password" binding:"required" validate:"required,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100,valid_name"`
	LastName  string `json:"last_name" validate:"required,max=100,valid_name"`
	Role      Role   `json:"account_type" binding:"required" validate:"required,oneof=student employer administrator"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is what register and login hand back to the client.
type Session struct {
	Account     *Account `json:"-"`
	ID          string   `json:"uuid"`
	Role        Role     `json:"account_type"`
	AccessToken string   `json:"access_token,omitempty"`
	ExpiresAt   *int64   `json:"expires_at,omitempty"`
}

// LoginMeta carries request attributes used for login tracking and audit.
type LoginMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// ModifyProfile locks the account row, lets fn change the profile and
	// writes it back in one transaction.
	ModifyProfile(ctx context.Context, id string, fn func(account *Account) error) (*Account, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status AccountStatus) error
	ListDirectory(ctx context.Context) ([]DirectoryEntry, error)
	Stats(ctx context.Context) (*Stats, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Authenticate(ctx context.Context, input LoginInput, meta LoginMeta) (*Session, error)
	Resolve(ctx context.Context, id string) (*Account, error)
}

type AccountUsecase interface {
	Me(ctx context.Context, p *Principal) (*Account, error)
	UpdateAgreements(ctx context.Context, p *Principal, update AgreementUpdate) (*Profile, error)
	SetTask(ctx context.Context, p *Principal, index int, done bool) (*Profile, error)
	Directory(ctx context.Context) ([]DirectoryEntry, error)
	Stats(ctx context.Context) (*Stats, error)
}

type AdminUsecase interface {
	SetAccountStatus(ctx context.Context, p *Principal, accountID string, status AccountStatus) (*Account, error)
}
