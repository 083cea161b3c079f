package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

func TestSendMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@x.com", domain.RoleStudent)
	bob := h.register(t, "bob@x.com", domain.RoleEmployer)

	t.Run("Defaults to text and starts unread", func(t *testing.T) {
		msg, err := h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: bob.ID, Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, domain.MessageTypeText, msg.MessageType)
		assert.False(t, msg.Read)
		assert.Equal(t, alice.ID, msg.SenderID)
	})

	t.Run("Rejected inputs", func(t *testing.T) {
		_, err := h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: alice.ID, Content: "me"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: bob.ID, Content: "   "})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: "nobody", Content: "hello?"})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		_, err = h.messages.Send(ctx, nil, domain.SendInput{ReceiverID: bob.ID, Content: "anon"})
		assert.Equal(t, apperror.KindMissingCredential, apperror.KindOf(err))
	})
}

func TestReadingMarksMessagesRead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@x.com", domain.RoleStudent)
	bob := h.register(t, "bob@x.com", domain.RoleEmployer)

	_, err := h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: bob.ID, Content: "hi"})
	require.NoError(t, err)
	_, err = h.messages.Send(ctx, alice, domain.SendInput{ReceiverID: bob.ID, Content: "are you there"})
	require.NoError(t, err)

	// The sender reading the thread does not mark anything.
	thread, err := h.messages.ListBetween(ctx, alice, bob.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.False(t, thread[0].Read)

	convs, err := h.messages.ListConversations(ctx, bob)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.True(t, convs[0].Unread)
	assert.Equal(t, alice.ID, convs[0].CounterpartID)
	assert.Equal(t, "Test User", convs[0].CounterpartName)
	assert.Equal(t, "are you there", convs[0].LastMessage.Content)

	thread, err = h.messages.ListBetween(ctx, bob, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi", thread[0].Content)
	for _, m := range thread {
		assert.True(t, m.Read)
	}

	convs, err = h.messages.ListConversations(ctx, bob)
	require.NoError(t, err)
	assert.False(t, convs[0].Unread)

	_, err = h.messages.ListBetween(ctx, bob, " ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
