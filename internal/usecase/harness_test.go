package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/credential"
	"go-jobboard-backend/pkg/events"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"
	"go-jobboard-backend/pkg/validation"
)

var fastParams = credential.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

type harness struct {
	store        *memStore
	tokens       *token.Issuer
	guard        *usecase.Guard
	auth         domain.AuthUsecase
	account      domain.AccountUsecase
	admin        domain.AdminUsecase
	postings     domain.PostingUsecase
	applications domain.ApplicationUsecase
	messages     domain.MessageUsecase
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	secret    string
	tracker   usecase.LoginTracker
	publisher events.Publisher
	tokens    *token.Issuer
	noAdmins  bool
}

func withSecret(s string) harnessOption { return func(c *harnessConfig) { c.secret = s } }

func withTracker(t usecase.LoginTracker) harnessOption {
	return func(c *harnessConfig) { c.tracker = t }
}

func withPublisher(p events.Publisher) harnessOption {
	return func(c *harnessConfig) { c.publisher = p }
}

func withoutAdminRegistration() harnessOption { return func(c *harnessConfig) { c.noAdmins = true } }

func withTokens(i *token.Issuer) harnessOption { return func(c *harnessConfig) { c.tokens = i } }

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{
		secret:    "test-secret",
		tracker:   security.NewLoginTracker(nil, security.LoginTrackerConfig{}, nil),
		publisher: events.Noop{},
		tokens:    token.NewIssuer("", time.Hour),
	}
	for _, o := range opts {
		o(&cfg)
	}

	store := newMemStore()
	accounts := memAccounts{store}
	postings := memPostings{store}
	apps := memApplications{store}
	validate := validation.New()

	return &harness{
		store:        store,
		tokens:       cfg.tokens,
		guard:        usecase.NewGuard(accounts, cfg.tokens, nil),
		auth:         usecase.NewAuthUsecase(accounts, credential.NewHasher(cfg.secret, fastParams), cfg.tokens, cfg.tracker, nil, validate,
			usecase.WithAdminRegistration(!cfg.noAdmins)),
		account:      usecase.NewAccountUsecase(accounts),
		admin:        usecase.NewAdminUsecase(accounts, nil),
		postings:     usecase.NewPostingUsecase(postings, accounts, cfg.publisher, validate),
		applications: usecase.NewApplicationUsecase(apps, postings, cfg.publisher),
		messages:     usecase.NewMessageUsecase(memMessages{store}, accounts, cfg.publisher, validate),
	}
}

func (h *harness) register(t *testing.T, email string, role domain.Role) *domain.Principal {
	t.Helper()
	s, err := h.auth.Register(context.Background(), domain.RegisterInput{
		Email: email, Password: "pw1", FirstName: "Test", LastName: "User", Role: role,
	})
	require.NoError(t, err)
	return &domain.Principal{ID: s.ID, Role: s.Role}
}

func boolPtr(b bool) *bool { return &b }

func (h *harness) onboard(t *testing.T, employer *domain.Principal) {
	t.Helper()
	_, err := h.account.UpdateAgreements(context.Background(), employer, domain.AgreementUpdate{
		EmployerAgreement:    boolPtr(true),
		JobPostingGuidelines: boolPtr(true),
		InsuranceCertificate: boolPtr(true),
		BenefitsDescription:  boolPtr(true),
	})
	require.NoError(t, err)
}

func (h *harness) createPosting(t *testing.T, employer *domain.Principal, title string) *domain.Posting {
	t.Helper()
	p, err := h.postings.Create(context.Background(), employer, domain.PostingInput{Title: title, Description: "Front of house"})
	require.NoError(t, err)
	return p
}

func (h *harness) acceptedPosting(t *testing.T, employer, admin *domain.Principal, title string) *domain.Posting {
	t.Helper()
	p := h.createPosting(t, employer, title)
	accepted, err := h.postings.Moderate(context.Background(), admin, p.ID, domain.DecisionAccept)
	require.NoError(t, err)
	return accepted
}

func titles(postings []domain.Posting) []string {
	out := make([]string, len(postings))
	for i, p := range postings {
		out[i] = p.Title
	}
	return out
}
