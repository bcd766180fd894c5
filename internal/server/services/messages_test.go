package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/mocks"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/dmitrijs2005/gopherchat/internal/server/realtime"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageFixture struct {
	svc      *MessageService
	repo     *messages.InMemoryRepository
	host     *mocks.MockHost
	notifier *mocks.MockNotifier
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &messageFixture{
		repo:     messages.NewInMemoryRepository(),
		host:     mocks.NewMockHost(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	f.svc = NewMessageService(f.repo, f.host, f.notifier, logging.Nop())
	return f
}

func TestSend_RequiresTextOrImage(t *testing.T) {
	f := newMessageFixture(t)

	for _, in := range []SendInput{{}, {Text: "   "}} {
		_, err := f.svc.Send(context.Background(), "ann", "bob", in)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}

	got, err := f.repo.Conversation(context.Background(), "ann", "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSend_PushesExactlyWhatWasStored(t *testing.T) {
	f := newMessageFixture(t)

	var pushed any
	f.notifier.EXPECT().
		Push("bob", realtime.EventNewMessage, gomock.Any()).
		DoAndReturn(func(_ string, _ string, payload any) error {
			pushed = payload
			return nil
		})

	msg, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Text: "Hi Bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "ann", msg.SenderID)
	assert.Equal(t, "bob", msg.ReceiverID)

	want, err := json.Marshal(msg)
	require.NoError(t, err)
	got, err := json.Marshal(pushed)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	stored, err := f.repo.Conversation(context.Background(), "bob", "ann")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *msg, *stored[0])
}

func TestSend_OfflineRecipientStillStored(t *testing.T) {
	f := newMessageFixture(t)
	f.notifier.EXPECT().Push("bob", realtime.EventNewMessage, gomock.Any()).Return(realtime.ErrOffline)

	msg, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Text: "later"})
	require.NoError(t, err)

	stored, err := f.repo.Conversation(context.Background(), "ann", "bob")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, msg.ID, stored[0].ID)
}

func TestSend_WithImage(t *testing.T) {
	f := newMessageFixture(t)
	f.host.EXPECT().Upload(gomock.Any(), "data:image/png;base64,AAAA").Return("http://cdn/img.png", "img.png", nil)
	f.notifier.EXPECT().Push("bob", realtime.EventNewMessage, gomock.Any()).Return(nil)

	msg, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Image: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/img.png", msg.Image)
	assert.Empty(t, msg.Text)
}

func TestSend_UploadFailures(t *testing.T) {
	t.Run("upstream", func(t *testing.T) {
		f := newMessageFixture(t)
		f.host.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", "", errors.New("s3 down"))

		_, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Text: "x", Image: "abc"})
		assert.ErrorIs(t, err, common.ErrUpstream)
		assert.NotErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("bad image", func(t *testing.T) {
		f := newMessageFixture(t)
		f.host.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", "", common.NewValidationError("Unsupported image type"))

		_, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Image: "abc"})
		assert.ErrorIs(t, err, common.ErrorValidation)
		assert.NotErrorIs(t, err, common.ErrUpstream)
	})
}

func TestSend_StoreFailureSkipsPush(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMessagesRepository(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	svc := NewMessageService(repo, mocks.NewMockHost(ctrl), notifier, logging.Nop())

	repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("db error: gone"))

	_, err := svc.Send(context.Background(), "ann", "bob", SendInput{Text: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorValidation))
}

func TestSend_FreshIDsAndOrderedTimestamps(t *testing.T) {
	f := newMessageFixture(t)
	f.notifier.EXPECT().Push(gomock.Any(), gomock.Any(), gomock.Any()).Return(realtime.ErrOffline).AnyTimes()

	wall := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	f.svc.clock.now = func() time.Time {
		step++
		// wall clock jumps back every third call
		if step%3 == 0 {
			return wall.Add(-time.Hour)
		}
		return wall.Add(time.Duration(step) * time.Microsecond)
	}

	seen := map[string]bool{}
	var prev time.Time
	for i := 0; i < 30; i++ {
		msg, err := f.svc.Send(context.Background(), "ann", "bob", SendInput{Text: "tick"})
		require.NoError(t, err)
		assert.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
		assert.False(t, msg.CreatedAt.Before(prev))
		prev = msg.CreatedAt
	}
}

func TestConversation_Symmetric(t *testing.T) {
	f := newMessageFixture(t)
	f.notifier.EXPECT().Push(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	wall := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.clock.now = func() time.Time {
		wall = wall.Add(time.Millisecond)
		return wall
	}

	ctx := context.Background()
	_, err := f.svc.Send(ctx, "ann", "bob", SendInput{Text: "Hi Bob"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, "bob", "ann", SendInput{Text: "Hi Ann"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, "ann", "cid", SendInput{Text: "elsewhere"})
	require.NoError(t, err)

	ab, err := f.svc.Conversation(ctx, "ann", "bob")
	require.NoError(t, err)
	ba, err := f.svc.Conversation(ctx, "bob", "ann")
	require.NoError(t, err)

	require.Len(t, ab, 2)
	assert.Equal(t, ab, ba)
	assert.Equal(t, []string{"Hi Bob", "Hi Ann"}, []string{ab[0].Text, ab[1].Text})
}

func TestConversation_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMessagesRepository(ctrl)
	svc := NewMessageService(repo, mocks.NewMockHost(ctrl), mocks.NewMockNotifier(ctrl), logging.Nop())

	repo.EXPECT().Conversation(gomock.Any(), "ann", "bob").Return(([]*models.Message)(nil), errors.New("boom"))

	_, err := svc.Conversation(context.Background(), "ann", "bob")
	assert.Error(t, err)
}
