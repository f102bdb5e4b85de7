package services

import (
	"context"
	"fmt"
	"sync"

	"swipe-match-backend/internal/models"
)

// --- in-memory fakes shared by the service tests ---

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	codes map[string]string // email -> verify code
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[string]*models.User),
		codes: make(map[string]string),
	}
}

func (f *fakeUserStore) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User, verifyCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	f.codes[user.Email] = verifyCode
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, email, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codes[email] != code || code == "" {
		return false, nil
	}
	for _, u := range f.users {
		if u.Email == email {
			u.EmailVerified = true
			delete(f.codes, email)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PushToken = pushToken
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, userID, displayName, bio string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.DisplayName = displayName
	u.Bio = bio
	return nil
}

func (f *fakeUserStore) UpdatePhotoURL(_ context.Context, userID, photoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PhotoURL = photoURL
	return nil
}

func (f *fakeUserStore) Discover(_ context.Context, userID string, limit int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if u.ID != userID && len(out) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSwipeStore struct {
	mu     sync.Mutex
	swipes map[string]*models.Swipe // "actor/target"
}

func newFakeSwipeStore() *fakeSwipeStore {
	return &fakeSwipeStore{swipes: make(map[string]*models.Swipe)}
}

func (f *fakeSwipeStore) Upsert(_ context.Context, swipe *models.Swipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swipes[swipe.ActorID+"/"+swipe.TargetID] = swipe
	return nil
}

func (f *fakeSwipeStore) HasLiked(_ context.Context, actorID, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.swipes[actorID+"/"+targetID]
	return ok && s.Liked, nil
}

type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]*models.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[string]*models.Match)}
}

func (f *fakeMatchStore) Create(_ context.Context, match *models.Match) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.matches[match.ID]; exists {
		return false, nil
	}
	cp := *match
	f.matches[match.ID] = &cp
	return true, nil
}

func (f *fakeMatchStore) GetByID(_ context.Context, id string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, fmt.Errorf("match not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatchStore) GetByUserID(_ context.Context, userID string) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Match
	for _, m := range f.matches {
		if m.HasUser(userID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMatchStore) SetNotified(_ context.Context, matchID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[matchID]
	if !ok {
		return fmt.Errorf("match not found")
	}
	if m.UserAID == userID {
		m.NotifiedA = true
	}
	if m.UserBID == userID {
		m.NotifiedB = true
	}
	return nil
}

func (f *fakeMatchStore) UnreadCounts(_ context.Context, userID string) ([]models.MatchUnread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MatchUnread
	for _, m := range f.matches {
		if m.HasUser(userID) {
			out = append(out, models.MatchUnread{MatchID: m.ID, UnreadCount: m.UnreadFor(userID)})
		}
	}
	return out, nil
}

// fakeMessageStore mirrors the transactional coupling of the real
// repository: message writes mutate the counters on the match store.
type fakeMessageStore struct {
	mu       sync.Mutex
	messages []*models.Message
	matches  *fakeMatchStore
}

func newFakeMessageStore(matches *fakeMatchStore) *fakeMessageStore {
	return &fakeMessageStore{matches: matches}
}

func (f *fakeMessageStore) Create(_ context.Context, msg *models.Message, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches.mu.Lock()
	defer f.matches.mu.Unlock()

	m, ok := f.matches.matches[msg.MatchID]
	if !ok {
		return fmt.Errorf("match not found")
	}
	cp := *msg
	f.messages = append(f.messages, &cp)
	if m.UserAID == recipientID {
		m.UnreadA++
	}
	if m.UserBID == recipientID {
		m.UnreadB++
	}
	return nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, matchID, readerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches.mu.Lock()
	defer f.matches.mu.Unlock()

	flipped := 0
	for _, msg := range f.messages {
		if msg.MatchID == matchID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			flipped++
		}
	}
	if m, ok := f.matches.matches[matchID]; ok {
		if m.UserAID == readerID {
			m.UnreadA = 0
		}
		if m.UserBID == readerID {
			m.UnreadB = 0
		}
	}
	return flipped, nil
}

func (f *fakeMessageStore) ListByMatch(_ context.Context, matchID string, limit, offset int) ([]*models.Message, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.Message
	for _, msg := range f.messages {
		if msg.MatchID == matchID {
			all = append(all, msg)
		}
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeMessageStore) unreadInMatch(matchID, userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, msg := range f.messages {
		if msg.MatchID == matchID && msg.SenderID != userID && !msg.IsRead {
			n++
		}
	}
	return n
}

type fakeCache struct {
	mu            sync.Mutex
	totals        map[string]int
	invalidations int
	sets          int
}

func newFakeCache() *fakeCache {
	return &fakeCache{totals: make(map[string]int)}
}

func (f *fakeCache) GetTotal(_ context.Context, userID string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.totals[userID]
	return n, ok, nil
}

func (f *fakeCache) SetTotal(_ context.Context, userID string, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[userID] = total
	f.sets++
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.totals, userID)
	f.invalidations++
	return nil
}

type pushCall struct {
	token string
	title string
	body  string
	badge int
}

type fakePusher struct {
	mu       sync.Mutex
	sent     []pushCall
	failNext bool
}

func (f *fakePusher) Push(_ context.Context, deviceToken, title, body string, badge int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("push gateway unavailable")
	}
	f.sent = append(f.sent, pushCall{token: deviceToken, title: title, body: body, badge: badge})
	return nil
}

func (f *fakePusher) calls() []pushCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pushCall, len(f.sent))
	copy(out, f.sent)
	return out
}

type fakeSink struct {
	mu     sync.Mutex
	online map[string]bool
	events map[string][]Event
}

func newFakeSink(onlineUsers ...string) *fakeSink {
	online := make(map[string]bool)
	for _, u := range onlineUsers {
		online[u] = true
	}
	return &fakeSink{online: online, events: make(map[string][]Event)}
}

func (f *fakeSink) SendToUser(userID string, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online[userID] {
		return fmt.Errorf("user %s is not connected", userID)
	}
	f.events[userID] = append(f.events[userID], event)
	return nil
}

func (f *fakeSink) IsOnline(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID]
}

func (f *fakeSink) eventsFor(userID string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events[userID]))
	copy(out, f.events[userID])
	return out
}

func strPtr(s string) *string { return &s }
