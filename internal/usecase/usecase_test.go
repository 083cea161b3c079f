package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/events"
)

// memStore is an in-memory stand-in for the four tables.
type memStore struct {
	mu           sync.Mutex
	clock        time.Time
	accounts     map[string]domain.Account
	postings     map[int64]domain.Posting
	applications map[int64]domain.Application
	messages     []domain.Message
	seq          int64

	getErr       error // returned by accounts.GetByID when set
	hideExisting bool  // applications.Exists always reports false
}

func newMemStore() *memStore {
	return &memStore{
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		accounts:     map[string]domain.Account{},
		postings:     map[int64]domain.Posting{},
		applications: map[int64]domain.Application{},
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

func copyAccount(a domain.Account) *domain.Account {
	if a.Profile.Forms.Student != nil {
		f := *a.Profile.Forms.Student
		a.Profile.Forms.Student = &f
	}
	if a.Profile.Forms.Employer != nil {
		f := *a.Profile.Forms.Employer
		a.Profile.Forms.Employer = &f
	}
	a.Profile.Tasks = append([]domain.Task(nil), a.Profile.Tasks...)
	return &a
}

type memAccounts struct{ *memStore }

func (r memAccounts) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return domain.ErrDuplicate
		}
	}
	now := r.tick()
	a.CreatedAt, a.UpdatedAt = now, now
	r.accounts[a.ID] = *copyAccount(*a)
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memAccounts) ModifyProfile(_ context.Context, id string, fn func(*domain.Account) error) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a := copyAccount(stored)
	if err := fn(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = r.tick()
	r.accounts[id] = *copyAccount(*a)
	return a, nil
}

func (r memAccounts) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.LastLogin = &at
	r.accounts[id] = a
	return nil
}

func (r memAccounts) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	r.accounts[id] = a
	return nil
}

func (r memAccounts) ListDirectory(_ context.Context) ([]domain.DirectoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.DirectoryEntry{}
	for _, a := range r.accounts {
		if a.Status == domain.AccountStatusActive {
			out = append(out, domain.DirectoryEntry{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Picture: a.Profile.Picture, Role: a.Role})
		}
	}
	return out, nil
}

func (r memAccounts) Stats(_ context.Context) (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &domain.Stats{TotalUsers: int64(len(r.accounts))}
	for _, a := range r.accounts {
		if a.Role == domain.RoleEmployer {
			s.TotalEmployers++
		}
	}
	for _, p := range r.postings {
		if p.Status == domain.PostingStatusAccepted {
			s.AcceptedPostings++
		}
	}
	return s, nil
}

type memPostings struct{ *memStore }

func (r memPostings) Create(_ context.Context, p *domain.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID()
	now := r.tick()
	p.Date, p.UpdatedAt = now, now
	r.postings[p.ID] = *p
	return nil
}

func (r memPostings) GetByID(_ context.Context, id int64) (*domain.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r memPostings) filter(keep func(domain.Posting) bool) []domain.Posting {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Posting{}
	for _, p := range r.postings {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r memPostings) ListByStatus(_ context.Context, status domain.PostingStatus) ([]domain.Posting, error) {
	return r.filter(func(p domain.Posting) bool { return p.Status == status }), nil
}

func (r memPostings) ListByEmployer(_ context.Context, employerID string) ([]domain.Posting, error) {
	return r.filter(func(p domain.Posting) bool { return p.EmployerID == employerID }), nil
}

func (r memPostings) UpdateContent(_ context.Context, p *domain.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.postings[p.ID]
	if !ok || stored.EmployerID != p.EmployerID {
		return domain.ErrNotFound
	}
	p.Status, p.Date, p.UpdatedAt = stored.Status, stored.Date, r.tick()
	r.postings[p.ID] = *p
	return nil
}

func (r memPostings) Transition(_ context.Context, id int64, from, to domain.PostingStatus) (*domain.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != from {
		return nil, domain.ErrStateChanged
	}
	p.Status, p.UpdatedAt = to, r.tick()
	r.postings[id] = p
	return &p, nil
}

func (r memPostings) DeleteCascade(_ context.Context, id int64, employerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postings[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.EmployerID != employerID {
		return 0, domain.ErrNotOwner
	}
	var removed int64
	for appID, app := range r.applications {
		if app.PostID == id {
			delete(r.applications, appID)
			removed++
		}
	}
	delete(r.postings, id)
	return removed, nil
}

type memApplications struct{ *memStore }

func (r memApplications) Create(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.applications {
		if existing.PostID == app.PostID && existing.ApplicantID == app.ApplicantID {
			return domain.ErrDuplicate
		}
	}
	app.ID = r.nextID()
	now := r.tick()
	app.CreatedAt, app.UpdatedAt = now, now
	r.applications[app.ID] = *app
	return nil
}

func (r memApplications) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &app, nil
}

func (r memApplications) Exists(_ context.Context, postID int64, applicantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideExisting {
		return false, nil
	}
	for _, app := range r.applications {
		if app.PostID == postID && app.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r memApplications) list(keep func(domain.Application) bool) []domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Application{}
	for _, app := range r.applications {
		if !keep(app) {
			continue
		}
		if p, ok := r.postings[app.PostID]; ok {
			title, company := p.Title, p.CompanyName
			app.PostTitle, app.CompanyName = &title, &company
		}
		if a, ok := r.accounts[app.ApplicantID]; ok {
			app.Applicant = &domain.Applicant{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email}
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memApplications) ListByApplicant(_ context.Context, applicantID string) ([]domain.Application, error) {
	return r.list(func(a domain.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r memApplications) ListByEmployer(_ context.Context, employerID string) ([]domain.Application, error) {
	return r.list(func(a domain.Application) bool { return a.EmployerID == employerID }), nil
}

func (r memApplications) Transition(_ context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, domain.ErrStateChanged
	}
	app.Status, app.UpdatedAt = status, r.tick()
	r.applications[id] = app
	return &app, nil
}

type memMessages struct{ *memStore }

func (r memMessages) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID()
	m.CreatedAt = r.tick()
	m.Read = false
	r.messages = append(r.messages, *m)
	return nil
}

func (r memMessages) ListBetween(_ context.Context, reader, counterpart string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Message{}
	for i, m := range r.messages {
		inThread := (m.SenderID == reader && m.ReceiverID == counterpart) ||
			(m.SenderID == counterpart && m.ReceiverID == reader)
		if !inThread {
			continue
		}
		if m.ReceiverID == reader {
			r.messages[i].Read = true
			m.Read = true
		}
		out = append(out, m)
	}
	return out, nil
}

func (r memMessages) ListConversations(_ context.Context, id string) ([]domain.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCounterpart := map[string]*domain.ConversationSummary{}
	for _, m := range r.messages {
		var other string
		switch id {
		case m.SenderID:
			other = m.ReceiverID
		case m.ReceiverID:
			other = m.SenderID
		default:
			continue
		}
		s, ok := byCounterpart[other]
		if !ok {
			s = &domain.ConversationSummary{CounterpartID: other}
			if a, found := r.accounts[other]; found {
				s.CounterpartName = a.DisplayName()
			}
			byCounterpart[other] = s
		}
		s.LastMessage = m
		if m.SenderID == other && !m.Read {
			s.Unread = true
		}
	}
	out := []domain.ConversationSummary{}
	for _, s := range byCounterpart {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt) })
	return out, nil
}

// Mocks

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockTracker) RecordFailure(ctx context.Context, email, requestID string) (bool, error) {
	args := m.Called(ctx, email, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTracker) Clear(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

// MockAccountRepo is used where a specific store failure has to be staged.
type MockAccountRepo struct {
	mock.Mock
	domain.AccountRepository
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
