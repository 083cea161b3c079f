package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/events"
)

func TestCreatePosting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	employer := h.register(t, "e@x.com", domain.RoleEmployer)
	student := h.register(t, "s@x.com", domain.RoleStudent)
	input := domain.PostingInput{Title: "Cashier", Description: "Evenings"}

	t.Run("Agreements incomplete", func(t *testing.T) {
		_, err := h.account.UpdateAgreements(ctx, employer, domain.AgreementUpdate{EmployerAgreement: boolPtr(true)})
		require.NoError(t, err)

		_, err = h.postings.Create(ctx, employer, input)
		assert.Equal(t, apperror.KindIncompleteOnboarding, apperror.KindOf(err))
	})

	t.Run("Wrong role", func(t *testing.T) {
		_, err := h.postings.Create(ctx, student, input)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("No caller", func(t *testing.T) {
		_, err := h.postings.Create(ctx, nil, input)
		assert.Equal(t, apperror.KindMissingCredential, apperror.KindOf(err))
	})

	t.Run("Starts pending with non-null lists", func(t *testing.T) {
		h.onboard(t, employer)
		p, err := h.postings.Create(ctx, employer, input)
		require.NoError(t, err)

		assert.Equal(t, domain.PostingStatusPending, p.Status)
		assert.Equal(t, employer.ID, p.EmployerID)
		assert.NotNil(t, p.Tags)
		assert.NotNil(t, p.Skills)
	})

	t.Run("Missing title", func(t *testing.T) {
		_, err := h.postings.Create(ctx, employer, domain.PostingInput{Description: "no title"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestModeratePosting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	employer := h.register(t, "e@x.com", domain.RoleEmployer)
	admin := h.register(t, "a@x.com", domain.RoleAdministrator)
	h.onboard(t, employer)

	cashier := h.createPosting(t, employer, "Cashier")
	baker := h.createPosting(t, employer, "Baker")

	t.Run("Pending postings are hidden", func(t *testing.T) {
		public, err := h.postings.ListPublic(ctx)
		require.NoError(t, err)
		assert.Empty(t, public)

		_, err = h.postings.GetPublic(ctx, cashier.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Admin sees the pending queue", func(t *testing.T) {
		pending, err := h.postings.ListPending(ctx, admin)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Cashier", "Baker"}, titles(pending))

		_, err = h.postings.ListPending(ctx, employer)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Only administrators moderate", func(t *testing.T) {
		_, err := h.postings.Moderate(ctx, employer, cashier.ID, domain.DecisionAccept)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Unknown decision", func(t *testing.T) {
		_, err := h.postings.Moderate(ctx, admin, cashier.ID, domain.Decision("maybe"))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Unknown posting", func(t *testing.T) {
		_, err := h.postings.Moderate(ctx, admin, 9999, domain.DecisionAccept)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Accept publishes and reject hides", func(t *testing.T) {
		accepted, err := h.postings.Moderate(ctx, admin, cashier.ID, domain.DecisionAccept)
		require.NoError(t, err)
		assert.Equal(t, domain.PostingStatusAccepted, accepted.Status)

		rejected, err := h.postings.Moderate(ctx, admin, baker.ID, domain.DecisionReject)
		require.NoError(t, err)
		assert.Equal(t, domain.PostingStatusRejected, rejected.Status)

		public, err := h.postings.ListPublic(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cashier"}, titles(public))

		got, err := h.postings.GetPublic(ctx, cashier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cashier", got.Title)
	})

	t.Run("A posting is moderated once", func(t *testing.T) {
		_, err := h.postings.Moderate(ctx, admin, baker.ID, domain.DecisionAccept)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

		owned, err := h.postings.ListOwned(ctx, employer)
		require.NoError(t, err)
		for _, p := range owned {
			if p.ID == baker.ID {
				assert.Equal(t, domain.PostingStatusRejected, p.Status)
			}
		}
	})
}

func TestModeratePublishesEvent(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.PostingModerated
	})).Once()

	h := newHarness(t, withPublisher(publisher))
	employer := h.register(t, "e@x.com", domain.RoleEmployer)
	admin := h.register(t, "a@x.com", domain.RoleAdministrator)
	h.onboard(t, employer)
	h.acceptedPosting(t, employer, admin, "Cashier")

	publisher.AssertExpectations(t)
}

func TestUpdateAndDeletePosting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.register(t, "e@x.com", domain.RoleEmployer)
	rival := h.register(t, "r@x.com", domain.RoleEmployer)
	admin := h.register(t, "a@x.com", domain.RoleAdministrator)
	student := h.register(t, "s@x.com", domain.RoleStudent)
	h.onboard(t, owner)

	posting := h.acceptedPosting(t, owner, admin, "Cashier")

	t.Run("Non-owner update leaves the posting untouched", func(t *testing.T) {
		_, err := h.postings.Update(ctx, rival, posting.ID, domain.PostingInput{Title: "Hijacked", Description: "x"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		got, err := h.postings.GetPublic(ctx, posting.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cashier", got.Title)
	})

	t.Run("Non-owner with empty content is forbidden", func(t *testing.T) {
		_, err := h.postings.Update(ctx, rival, posting.ID, domain.PostingInput{})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(h.postings.CheckOwner(ctx, rival, posting.ID)))
		assert.NoError(t, h.postings.CheckOwner(ctx, owner, posting.ID))
	})

	t.Run("Owner update keeps status", func(t *testing.T) {
		updated, err := h.postings.Update(ctx, owner, posting.ID, domain.PostingInput{
			Title: "Head Cashier", Description: "Weekends", Skills: []string{"tills"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PostingStatusAccepted, updated.Status)
		assert.Equal(t, []string{"tills"}, updated.Skills)
	})

	t.Run("Update unknown posting", func(t *testing.T) {
		_, err := h.postings.Update(ctx, owner, 9999, domain.PostingInput{Title: "x", Description: "y"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	_, err := h.applications.Apply(ctx, student, domain.ApplyInput{PostID: posting.ID, Answers: json.RawMessage(`{"why":"money"}`)})
	require.NoError(t, err)

	t.Run("Non-owner delete is refused", func(t *testing.T) {
		err := h.postings.Delete(ctx, rival, posting.ID)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

		_, err = h.postings.GetPublic(ctx, posting.ID)
		assert.NoError(t, err)
	})

	t.Run("Delete cascades to applications", func(t *testing.T) {
		require.NoError(t, h.postings.Delete(ctx, owner, posting.ID))

		_, err := h.postings.GetPublic(ctx, posting.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		submitted, err := h.applications.ListSubmitted(ctx, student)
		require.NoError(t, err)
		assert.Empty(t, submitted)

		err = h.postings.Delete(ctx, owner, posting.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
