package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type applyFixture struct {
	h        *harness
	employer *domain.Principal
	rival    *domain.Principal
	admin    *domain.Principal
	student  *domain.Principal
	open     *domain.Posting
}

func newApplyFixture(t *testing.T) *applyFixture {
	h := newHarness(t)
	f := &applyFixture{
		h:        h,
		employer: h.register(t, "e@x.com", domain.RoleEmployer),
		rival:    h.register(t, "r@x.com", domain.RoleEmployer),
		admin:    h.register(t, "a@x.com", domain.RoleAdministrator),
		student:  h.register(t, "s@x.com", domain.RoleStudent),
	}
	h.onboard(t, f.employer)
	f.open = h.acceptedPosting(t, f.employer, f.admin, "Cashier")
	return f
}

func TestApply(t *testing.T) {
	f := newApplyFixture(t)
	ctx := context.Background()

	t.Run("Only students apply", func(t *testing.T) {
		_, err := f.h.applications.Apply(ctx, f.rival, domain.ApplyInput{PostID: f.open.ID})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Unknown posting", func(t *testing.T) {
		_, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: 9999})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Pending posting is not open", func(t *testing.T) {
		pending := f.h.createPosting(t, f.employer, "Baker")
		_, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: pending.ID})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Answers must be an object or array", func(t *testing.T) {
		_, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: f.open.ID, Answers: json.RawMessage(`"text"`)})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Pins the employer and starts pending", func(t *testing.T) {
		app, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: f.open.ID})
		require.NoError(t, err)
		assert.Equal(t, f.employer.ID, app.EmployerID)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		assert.JSONEq(t, `{}`, string(app.Answers))
	})

	t.Run("Second application is a conflict", func(t *testing.T) {
		_, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: f.open.ID})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

		submitted, err := f.h.applications.ListSubmitted(ctx, f.student)
		require.NoError(t, err)
		assert.Len(t, submitted, 1)
	})
}

func TestApplyConcurrentDuplicate(t *testing.T) {
	f := newApplyFixture(t)
	ctx := context.Background()

	_, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: f.open.ID})
	require.NoError(t, err)

	// The pre-check misses the first row, as it would for two requests in flight.
	f.h.store.hideExisting = true
	_, err = f.h.applications.Apply(ctx, f.student, domain.ApplyInput{PostID: f.open.ID})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestApplicationListsAndDecisions(t *testing.T) {
	f := newApplyFixture(t)
	ctx := context.Background()

	app, err := f.h.applications.Apply(ctx, f.student, domain.ApplyInput{
		PostID: f.open.ID, Answers: json.RawMessage(`[{"q":"why","a":"money"}]`),
	})
	require.NoError(t, err)

	t.Run("Submitted list joins posting title", func(t *testing.T) {
		submitted, err := f.h.applications.ListSubmitted(ctx, f.student)
		require.NoError(t, err)
		require.Len(t, submitted, 1)
		require.NotNil(t, submitted[0].PostTitle)
		assert.Equal(t, "Cashier", *submitted[0].PostTitle)
	})

	t.Run("Received list joins applicant", func(t *testing.T) {
		received, err := f.h.applications.ListReceived(ctx, f.employer)
		require.NoError(t, err)
		require.Len(t, received, 1)
		require.NotNil(t, received[0].Applicant)
		assert.Equal(t, "s@x.com", received[0].Applicant.Email)

		others, err := f.h.applications.ListReceived(ctx, f.rival)
		require.NoError(t, err)
		assert.Empty(t, others)

		_, err = f.h.applications.ListReceived(ctx, f.student)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Invalid target status", func(t *testing.T) {
		_, err := f.h.applications.SetStatus(ctx, f.employer, app.ID, domain.ApplicationStatusPending)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Only the pinned employer decides", func(t *testing.T) {
		_, err := f.h.applications.SetStatus(ctx, f.rival, app.ID, domain.ApplicationStatusAccepted)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		_, err = f.h.applications.SetStatus(ctx, f.student, app.ID, domain.ApplicationStatusAccepted)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Non-owner with invalid status is still forbidden", func(t *testing.T) {
		for _, status := range []domain.ApplicationStatus{domain.ApplicationStatusPending, "hired"} {
			_, err := f.h.applications.SetStatus(ctx, f.rival, app.ID, status)
			assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err), status)
		}
		assert.NoError(t, f.h.applications.CheckOwner(ctx, f.employer, app.ID))
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(f.h.applications.CheckOwner(ctx, f.rival, app.ID)))
	})

	t.Run("Unknown application", func(t *testing.T) {
		_, err := f.h.applications.SetStatus(ctx, f.employer, 9999, domain.ApplicationStatusAccepted)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Decided once", func(t *testing.T) {
		decided, err := f.h.applications.SetStatus(ctx, f.employer, app.ID, domain.ApplicationStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusAccepted, decided.Status)

		_, err = f.h.applications.SetStatus(ctx, f.employer, app.ID, domain.ApplicationStatusRejected)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

		submitted, err := f.h.applications.ListSubmitted(ctx, f.student)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusAccepted, submitted[0].Status)
	})
}
