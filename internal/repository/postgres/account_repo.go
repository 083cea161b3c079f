package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"
)

type accountRepo struct {
	base
}

func NewAccountRepository(db DB, timeout time.Duration) domain.AccountRepository {
	return &accountRepo{base: newBase(db, timeout)}
}

const accountColumns = `id, email, password_hash, role, first_name, last_name, profile, status, created_at, updated_at, last_login`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	var profile []byte
	if err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.FirstName, &a.LastName,
		&profile, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.LastLogin,
	); err != nil {
		return nil, mapNoRows(err)
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &a.Profile); err != nil {
			return nil, fmt.Errorf("decode profile of %s: %w", a.ID, err)
		}
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	profile, err := json.Marshal(a.Profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, role, first_name, last_name, profile, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Role, a.FirstName, a.LastName, string(profile), a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *accountRepo) ModifyProfile(ctx context.Context, id string, fn func(*domain.Account) error) (*domain.Account, error) {
	ctx, cancel := r.detached(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	a, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}

	body, err := json.Marshal(a.Profile)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx,
		`UPDATE accounts SET profile = $2::jsonb, updated_at = now() WHERE id = $1 RETURNING updated_at`,
		id, string(body),
	).Scan(&a.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) ListDirectory(ctx context.Context) ([]domain.DirectoryEntry, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, COALESCE(profile->>'pfp', ''), role
		FROM accounts
		WHERE status = 'active'
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.DirectoryEntry{}
	for rows.Next() {
		var e domain.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Picture, &e.Role); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *accountRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM accounts WHERE role = 'employer'),
			(SELECT COUNT(*) FROM posts WHERE status = 'Accepted')`

	var s domain.Stats
	if err := r.db.QueryRow(ctx, query).Scan(&s.TotalUsers, &s.TotalEmployers, &s.AcceptedPostings); err != nil {
		return nil, err
	}
	return &s, nil
}
