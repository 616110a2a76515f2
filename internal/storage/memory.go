package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
)

// MemoryStore is the in-memory Store used by tests and local
// development. All reads return copies so callers hold immutable
// snapshots, matching the Postgres behavior.
type MemoryStore struct {
	mu sync.RWMutex

	users       map[string]*models.User
	follows     map[string]map[string]bool // followerID -> followedID
	communities map[string]*models.Community
	members     map[string]map[string]bool // communityID -> userID
	microblogs  map[string]*models.Microblog
	prayers     map[string]*models.PrayerRequest
	events      map[string]*models.Event
	rsvps       map[string]map[string]string // eventID -> userID -> status
	messages    []models.DirectMessage
	reports     map[string]*models.ModerationReport

	// Append-only interaction log.
	interactions []models.Interaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*models.User),
		follows:     make(map[string]map[string]bool),
		communities: make(map[string]*models.Community),
		members:     make(map[string]map[string]bool),
		microblogs:  make(map[string]*models.Microblog),
		prayers:     make(map[string]*models.PrayerRequest),
		events:      make(map[string]*models.Event),
		rsvps:       make(map[string]map[string]string),
		reports:     make(map[string]*models.ModerationReport),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
func (s *MemoryStore) Close()                         {}

// --- users & follows ---

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return models.ErrAlreadyExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return models.ErrSelfFollow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.follows[followerID] == nil {
		s.follows[followerID] = make(map[string]bool)
	}
	s.follows[followerID][followedID] = true
	return nil
}

func (s *MemoryStore) Unfollow(ctx context.Context, followerID, followedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows[followerID], followedID)
	return nil
}

func (s *MemoryStore) FollowedUsers(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.follows[userID]))
	for id := range s.follows[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for follower, followed := range s.follows {
		if followed[userID] {
			out = append(out, follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- communities ---

func (s *MemoryStore) CreateCommunity(ctx context.Context, community *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *community
	s.communities[community.ID] = &cp
	if s.members[community.ID] == nil {
		s.members[community.ID] = make(map[string]bool)
	}
	s.members[community.ID][community.CreatedBy] = true
	s.communities[community.ID].MemberCount = 1
	return nil
}

func (s *MemoryStore) CommunityByID(ctx context.Context, id string) (*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.communities[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ListCommunities(ctx context.Context, limit int) ([]models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Community, 0, len(s.communities))
	for _, c := range s.communities {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) JoinCommunity(ctx context.Context, communityID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[communityID]
	if !ok {
		return models.ErrNotFound
	}
	if s.members[communityID] == nil {
		s.members[communityID] = make(map[string]bool)
	}
	if !s.members[communityID][userID] {
		s.members[communityID][userID] = true
		c.MemberCount++
	}
	return nil
}

func (s *MemoryStore) LeaveCommunity(ctx context.Context, communityID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[communityID]
	if !ok {
		return models.ErrNotFound
	}
	if s.members[communityID][userID] {
		delete(s.members[communityID], userID)
		c.MemberCount--
	}
	return nil
}

func (s *MemoryStore) UserCommunityIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for communityID, members := range s.members {
		if members[userID] {
			out = append(out, communityID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- microblogs ---

func (s *MemoryStore) CreateMicroblog(ctx context.Context, blog *models.Microblog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *blog
	s.microblogs[blog.ID] = &cp
	return nil
}

func (s *MemoryStore) MicroblogByID(ctx context.Context, id string) (*models.Microblog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.microblogs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) ListMicroblogs(ctx context.Context, limit int) ([]models.Microblog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Microblog, 0, len(s.microblogs))
	for _, b := range s.microblogs {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) LikeMicroblog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.microblogs[id]
	if !ok {
		return models.ErrNotFound
	}
	b.LikeCount++
	return nil
}

// --- prayer requests ---

func (s *MemoryStore) CreatePrayerRequest(ctx context.Context, req *models.PrayerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *req
	s.prayers[req.ID] = &cp
	return nil
}

func (s *MemoryStore) PrayerRequestByID(ctx context.Context, id string) (*models.PrayerRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prayers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListPrayerRequests(ctx context.Context, limit int) ([]models.PrayerRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PrayerRequest, 0, len(s.prayers))
	for _, p := range s.prayers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) PrayForRequest(ctx context.Context, id string) (*models.PrayerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prayers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.PrayerCount++
	cp := *p
	return &cp, nil
}

// --- events ---

func (s *MemoryStore) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *MemoryStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) ListEvents(ctx context.Context, communityID string, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if communityID != "" && e.CommunityID != communityID {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) RSVPEvent(ctx context.Context, rsvp *models.EventRSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[rsvp.EventID]; !ok {
		return models.ErrNotFound
	}
	if s.rsvps[rsvp.EventID] == nil {
		s.rsvps[rsvp.EventID] = make(map[string]string)
	}
	s.rsvps[rsvp.EventID][rsvp.UserID] = rsvp.Status
	return nil
}

// --- messages ---

func (s *MemoryStore) CreateMessage(ctx context.Context, msg *models.DirectMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, *msg)
	return nil
}

func (s *MemoryStore) Conversation(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.DirectMessage
	for _, m := range s.messages {
		if (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- moderation ---

func (s *MemoryStore) CreateReport(ctx context.Context, report *models.ModerationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

func (s *MemoryStore) ReportByID(ctx context.Context, id string) (*models.ModerationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ListReports(ctx context.Context, status string, limit int) ([]models.ModerationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ModerationReport, 0, len(s.reports))
	for _, r := range s.reports {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ResolveReport(ctx context.Context, id, resolverID, status, resolution string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return models.ErrNotFound
	}
	if r.Status != models.ReportStatusOpen {
		return models.ErrReportAlreadyClosed
	}
	now := time.Now()
	r.Status = status
	r.Resolution = resolution
	r.ResolvedBy = resolverID
	r.ResolvedAt = &now
	return nil
}

// --- recommendation ---

func (s *MemoryStore) UserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

func (s *MemoryStore) RecordInteraction(ctx context.Context, interaction *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, *interaction)
	return nil
}

func (s *MemoryStore) UserInteractions(ctx context.Context, userID string, limit int) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Interaction
	// Walk backwards: the log is append-only so newest rows are last.
	for i := len(s.interactions) - 1; i >= 0; i-- {
		if s.interactions[i].UserID != userID {
			continue
		}
		out = append(out, s.interactions[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) CandidateMicroblogs(ctx context.Context, userID string, since time.Time) ([]models.Microblog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Microblog
	for _, b := range s.microblogs {
		if b.AuthorID == userID || b.CreatedAt.Before(since) {
			continue
		}
		cp := *b
		if author, ok := s.users[b.AuthorID]; ok {
			cp.AuthorUsername = author.Username
			cp.AuthorVerified = author.VerifiedAnswerer
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CandidateCommunities(ctx context.Context, userID string) ([]models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Community
	for id, c := range s.communities {
		if s.members[id][userID] {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InteractionCount reports the size of the interaction log. Test helper.
func (s *MemoryStore) InteractionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions)
}
