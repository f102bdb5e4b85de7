package services

import (
	"context"
	"testing"
	"time"

	"swipe-match-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	users    *fakeUserStore
	matches  *fakeMatchStore
	messages *fakeMessageStore
	cache    *fakeCache
	pusher   *fakePusher
	sink     *fakeSink
	presence *Presence
	svc      *ChatService
	matchID  string
}

func newChatFixture(t *testing.T, onlineUsers ...string) *chatFixture {
	t.Helper()
	users := newFakeUserStore()
	users.add(&models.User{ID: "u1", DisplayName: "Alice", PushToken: strPtr("tok-a")})
	users.add(&models.User{ID: "u2", DisplayName: "Bob", PushToken: strPtr("tok-b")})

	matches := newFakeMatchStore()
	match := models.NewMatch("u1", "u2", time.Now())
	created, err := matches.Create(context.Background(), match)
	require.NoError(t, err)
	require.True(t, created)

	messages := newFakeMessageStore(matches)
	cache := newFakeCache()
	pusher := &fakePusher{}
	sink := newFakeSink(onlineUsers...)
	presence := NewPresence()
	notifier := NewNotifier(users, matches, pusher, presence)

	return &chatFixture{
		users:    users,
		matches:  matches,
		messages: messages,
		cache:    cache,
		pusher:   pusher,
		sink:     sink,
		presence: presence,
		svc:      NewChatService(messages, matches, users, cache, presence, sink, notifier),
		matchID:  match.ID,
	}
}

func TestSendMessageIncrementsRecipientUnread(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	msg, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)
	assert.Equal(t, f.matchID, msg.MatchID)
	assert.False(t, msg.IsRead)

	counts, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].UnreadCount)

	// Sender's own unread state is untouched.
	_, senderTotal, err := f.svc.UnreadCounts(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, senderTotal)
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	f := newChatFixture(t)
	f.users.add(&models.User{ID: "u3", DisplayName: "Mallory"})

	_, err := f.svc.SendMessage(context.Background(), "u3", f.matchID, "let me in")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SendMessage(context.Background(), "u2", f.matchID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageNotifiesOfflineRecipient(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)

	calls := f.pusher.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tok-a", calls[0].token)
	assert.Equal(t, "Bob", calls[0].title)
	assert.Equal(t, "hello", calls[0].body)
	assert.Equal(t, 1, calls[0].badge)
}

func TestSendMessageEmitsEventsToOnlineRecipient(t *testing.T) {
	f := newChatFixture(t, "u1")
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)

	events := f.sink.eventsFor("u1")
	require.Len(t, events, 2)
	assert.Equal(t, EventNewMessage, events[0].Type)
	assert.Equal(t, EventUnreadCounts, events[1].Type)
}

func TestUnreadCountMatchesUnreadMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "msg")
		require.NoError(t, err)
	}

	_, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, f.messages.unreadInMatch(f.matchID, "u1"))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "one")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, "u2", f.matchID, "two")
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkRead(ctx, "u1", f.matchID))
	require.NoError(t, f.svc.MarkRead(ctx, "u1", f.matchID))

	_, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, f.messages.unreadInMatch(f.matchID, "u1"))
}

func TestMarkReadOnEmptyConversationSucceeds(t *testing.T) {
	f := newChatFixture(t)

	assert.NoError(t, f.svc.MarkRead(context.Background(), "u1", f.matchID))
}

func TestViewingSuppressesUnreadContribution(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnterConversation(ctx, "u1", f.matchID))

	// Messages arriving during the viewing window do not surface.
	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "while viewing")
	require.NoError(t, err)

	_, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// And push delivery is suppressed too.
	assert.Empty(t, f.pusher.calls())
}

func TestOpeningConversationClearsUnreadAndFlipsMessages(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "msg")
		require.NoError(t, err)
	}

	_, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, total)

	require.NoError(t, f.svc.EnterConversation(ctx, "u1", f.matchID))

	_, total, err = f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, f.messages.unreadInMatch(f.matchID, "u1"))
}

func TestLeaveConversationFlushesReadState(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnterConversation(ctx, "u1", f.matchID))
	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "while viewing")
	require.NoError(t, err)

	require.NoError(t, f.svc.LeaveConversation(ctx, "u1"))

	assert.Equal(t, 0, f.messages.unreadInMatch(f.matchID, "u1"))
	_, ok := f.presence.Viewing("u1")
	assert.False(t, ok)

	// After leaving, new messages count again.
	_, err = f.svc.SendMessage(ctx, "u2", f.matchID, "after leaving")
	require.NoError(t, err)
	_, total, err := f.svc.UnreadCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSecondViewingFrameFlushesReplacedConversation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	// A second match for u1 with a third user.
	f.users.add(&models.User{ID: "u3", DisplayName: "Carol"})
	other := models.NewMatch("u1", "u3", time.Now())
	created, err := f.matches.Create(ctx, other)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, f.svc.EnterConversation(ctx, "u1", f.matchID))
	_, err = f.svc.SendMessage(ctx, "u2", f.matchID, "in the first chat")
	require.NoError(t, err)

	// Deep-link into the second conversation without leaving the first.
	require.NoError(t, f.svc.EnterConversation(ctx, "u1", other.ID))

	assert.Equal(t, 0, f.messages.unreadInMatch(f.matchID, "u1"))
	viewing, ok := f.presence.Viewing("u1")
	require.True(t, ok)
	assert.Equal(t, other.ID, viewing)
}

func TestUnreadTotalUsesCache(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)

	total, err := f.svc.UnreadTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	setsAfterMiss := f.cache.sets

	// Second read is served from the cache, no repopulation.
	total, err = f.svc.UnreadTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, setsAfterMiss, f.cache.sets)
}

func TestSendMessageInvalidatesRecipientCache(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.SetTotal(ctx, "u1", 0))
	before := f.cache.invalidations

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)
	assert.Greater(t, f.cache.invalidations, before)

	total, err := f.svc.UnreadTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListMessagesChecksMembership(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "u2", f.matchID, "hello")
	require.NoError(t, err)

	msgs, total, err := f.svc.ListMessages(ctx, "u1", f.matchID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, msgs, 1)

	f.users.add(&models.User{ID: "u3"})
	_, _, err = f.svc.ListMessages(ctx, "u3", f.matchID, 0, 0)
	assert.ErrorIs(t, err, ErrNotParticipant)
}
