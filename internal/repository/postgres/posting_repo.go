package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"go-jobboard-backend/internal/domain"
)

type postingRepo struct {
	base
}

func NewPostingRepository(db DB, timeout time.Duration) domain.PostingRepository {
	return &postingRepo{base: newBase(db, timeout)}
}

const postingColumns = `id, employer_id, title, description, tags, documents, tips, skills,
	experience, jobtype, location, questions, company_name, status, date, updated_at`

func scanPosting(row interface{ Scan(...any) error }) (*domain.Posting, error) {
	var p domain.Posting
	if err := row.Scan(
		&p.ID, &p.EmployerID, &p.Title, &p.Description,
		pq.Array(&p.Tags), pq.Array(&p.Documents), pq.Array(&p.Tips), pq.Array(&p.Skills),
		&p.Experience, &p.JobType, &p.Location, &p.Questions, &p.CompanyName,
		&p.Status, &p.Date, &p.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

func (r *postingRepo) list(ctx context.Context, query string, args ...any) ([]domain.Posting, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	postings := []domain.Posting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

func (r *postingRepo) Create(ctx context.Context, p *domain.Posting) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		INSERT INTO posts (employer_id, title, description, tags, documents, tips, skills,
			experience, jobtype, location, questions, company_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, date, updated_at`

	return r.db.QueryRow(ctx, query,
		p.EmployerID, p.Title, p.Description,
		pq.Array(p.Tags), pq.Array(p.Documents), pq.Array(p.Tips), pq.Array(p.Skills),
		p.Experience, p.JobType, p.Location, p.Questions, p.CompanyName, p.Status,
	).Scan(&p.ID, &p.Date, &p.UpdatedAt)
}

func (r *postingRepo) GetByID(ctx context.Context, id int64) (*domain.Posting, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	return scanPosting(r.db.QueryRow(ctx, `SELECT `+postingColumns+` FROM posts WHERE id = $1`, id))
}

func (r *postingRepo) ListByStatus(ctx context.Context, status domain.PostingStatus) ([]domain.Posting, error) {
	return r.list(ctx, `SELECT `+postingColumns+` FROM posts WHERE status = $1 ORDER BY date DESC, id DESC`, status)
}

func (r *postingRepo) ListByEmployer(ctx context.Context, employerID string) ([]domain.Posting, error) {
	return r.list(ctx, `SELECT `+postingColumns+` FROM posts WHERE employer_id = $1 ORDER BY date DESC, id DESC`, employerID)
}

func (r *postingRepo) UpdateContent(ctx context.Context, p *domain.Posting) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		UPDATE posts SET
			title = $3, description = $4, tags = $5, documents = $6, tips = $7, skills = $8,
			experience = $9, jobtype = $10, location = $11, questions = $12, company_name = $13,
			updated_at = now()
		WHERE id = $1 AND employer_id = $2
		RETURNING status, date, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.EmployerID, p.Title, p.Description,
		pq.Array(p.Tags), pq.Array(p.Documents), pq.Array(p.Tips), pq.Array(p.Skills),
		p.Experience, p.JobType, p.Location, p.Questions, p.CompanyName,
	).Scan(&p.Status, &p.Date, &p.UpdatedAt)
	return mapNoRows(err)
}

func (r *postingRepo) Transition(ctx context.Context, id int64, from, to domain.PostingStatus) (*domain.Posting, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		UPDATE posts SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + postingColumns

	p, err := scanPosting(r.db.QueryRow(ctx, query, id, from, to))
	if !errors.Is(err, domain.ErrNotFound) {
		return p, err
	}

	// Nothing matched: either the posting is gone or it already left from.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrStateChanged
	}
	return nil, domain.ErrNotFound
}

func (r *postingRepo) DeleteCascade(ctx context.Context, id int64, employerID string) (int64, error) {
	ctx, cancel := r.detached(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner string
	err = tx.QueryRow(ctx, `SELECT employer_id FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if owner != employerID {
		return 0, domain.ErrNotOwner
	}

	tag, err := tx.Exec(ctx, `DELETE FROM applications WHERE post_id = $1`, id)
	if err != nil {
		return 0, err
	}
	removed := tag.RowsAffected()

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return removed, nil
}
