package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobboard-backend/internal/domain"
)

type applicationRepo struct {
	base
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db DB, timeout time.Duration) domain.ApplicationRepository {
	return &applicationRepo{base: newBase(db, timeout)}
}

const applicationColumns = `a.id, a.post_id, a.applicant_id, a.employer_id, a.status, a.answers, a.created_at, a.updated_at`

func scanApplication(row interface{ Scan(...any) error }, extra ...any) (*domain.Application, error) {
	var app domain.Application
	var answers []byte
	dest := append([]any{
		&app.ID, &app.PostID, &app.ApplicantID, &app.EmployerID,
		&app.Status, &answers, &app.CreatedAt, &app.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapNoRows(err)
	}
	app.Answers = answers
	return &app, nil
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		INSERT INTO applications (post_id, applicant_id, employer_id, status, answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $6)
		RETURNING id`

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	err := r.db.QueryRow(ctx, query,
		app.PostID, app.ApplicantID, app.EmployerID, app.Status, string(app.Answers), now,
	).Scan(&app.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id))
}

func (r *applicationRepo) Exists(ctx context.Context, postID int64, applicantID string) (bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE post_id = $1 AND applicant_id = $2)`,
		postID, applicantID,
	).Scan(&exists)
	return exists, err
}

// ListByApplicant returns a student's applications with posting title and company
func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT ` + applicationColumns + `, p.title, p.company_name
		FROM applications a
		LEFT JOIN posts p ON p.id = a.post_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		var title, company *string
		app, err := scanApplication(rows, &title, &company)
		if err != nil {
			return nil, err
		}
		app.PostTitle, app.CompanyName = title, company
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ListByEmployer returns applications received by an employer with applicant details
func (r *applicationRepo) ListByEmployer(ctx context.Context, employerID string) ([]domain.Application, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT ` + applicationColumns + `, p.title, u.first_name, u.last_name, u.email
		FROM applications a
		LEFT JOIN posts p ON p.id = a.post_id
		JOIN accounts u ON u.id = a.applicant_id
		WHERE a.employer_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		var title *string
		applicant := &domain.Applicant{}
		app, err := scanApplication(rows, &title, &applicant.FirstName, &applicant.LastName, &applicant.Email)
		if err != nil {
			return nil, err
		}
		applicant.ID = app.ApplicantID
		app.PostTitle, app.Applicant = title, applicant
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) Transition(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		UPDATE applications a SET status = $2, updated_at = now()
		WHERE a.id = $1 AND a.status = 'pending'
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, status))
	if !errors.Is(err, domain.ErrNotFound) {
		return app, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrStateChanged
	}
	return nil, domain.ErrNotFound
}
