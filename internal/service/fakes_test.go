package service

import (
	"context"
	"strings"
	"time"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
)

// In-memory store fakes. They mirror the repository contracts, including
// returning gorm.ErrRecordNotFound for missing rows, so the services see the
// same error surface as in production.

type voteKey struct {
	doubtID uint64
	userID  uint64
}

type fakeVoteStore struct {
	doubts map[uint64]*model.Doubt // doubtID -> doubt (author + counts)
	votes  map[voteKey]int8
}

func newFakeVoteStore(doubts ...*model.Doubt) *fakeVoteStore {
	s := &fakeVoteStore{
		doubts: make(map[uint64]*model.Doubt),
		votes:  make(map[voteKey]int8),
	}
	for _, d := range doubts {
		s.doubts[d.ID] = d
	}
	return s
}

func (s *fakeVoteStore) Apply(_ context.Context, doubtID, userID uint64, requested int8) (model.VoteOutcome, error) {
	doubt, ok := s.doubts[doubtID]
	if !ok {
		return model.VoteOutcome{}, gorm.ErrRecordNotFound
	}

	key := voteKey{doubtID: doubtID, userID: userID}
	existing := s.votes[key]
	next := model.NextVote(existing, requested)
	if next == model.VoteNone {
		delete(s.votes, key)
	} else {
		s.votes[key] = next
	}

	var up, down int64
	for k, v := range s.votes {
		if k.doubtID != doubtID {
			continue
		}
		if v == model.VoteUp {
			up++
		} else {
			down++
		}
	}
	doubt.UpvoteCount = up
	doubt.DownvoteCount = down
	doubt.VoteTotal = model.ComputeVoteTotal(up, down)

	return model.VoteOutcome{
		Counts: model.VoteCounts{
			VoteTotal: doubt.VoteTotal,
			Upvotes:   up,
			Downvotes: down,
		},
		DoubtAuthorID:   doubt.AuthorID,
		Value:           next,
		ReputationDelta: model.VoteReputationDelta(existing, next),
	}, nil
}

func (s *fakeVoteStore) Find(_ context.Context, doubtID, userID uint64) (int8, error) {
	return s.votes[voteKey{doubtID: doubtID, userID: userID}], nil
}

func (s *fakeVoteStore) Total(_ context.Context, doubtID uint64) (int64, error) {
	doubt, ok := s.doubts[doubtID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return doubt.VoteTotal, nil
}

type fakeReputationStore struct {
	balances map[uint64]int64
	events   []model.ReputationEvent
}

func newFakeReputationStore() *fakeReputationStore {
	return &fakeReputationStore{balances: make(map[uint64]int64)}
}

func (s *fakeReputationStore) Adjust(_ context.Context, userID uint64, delta int64, reason string) error {
	next := s.balances[userID] + delta
	if next < 0 {
		next = 0
	}
	s.balances[userID] = next
	s.events = append(s.events, model.ReputationEvent{UserID: userID, Delta: delta, Reason: reason})
	return nil
}

func (s *fakeReputationStore) History(_ context.Context, userID uint64) ([]model.ReputationEvent, error) {
	var out []model.ReputationEvent
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeVoteCache struct {
	applied   []int8
	setTotals []int64
	deletes   int

	cachedVote  int8
	cachedHit   bool
	cachedTotal int64
	totalHit    bool
	warmed      []int8
}

func (c *fakeVoteCache) ApplyVote(_ context.Context, _, _ uint64, value int8) error {
	c.applied = append(c.applied, value)
	return nil
}

func (c *fakeVoteCache) VotedCached(_ context.Context, _, _ uint64) (int8, bool, error) {
	return c.cachedVote, c.cachedHit, nil
}

func (c *fakeVoteCache) WarmVoted(_ context.Context, _, _ uint64, value int8) {
	c.warmed = append(c.warmed, value)
}

func (c *fakeVoteCache) GetTotalCached(_ context.Context, _ uint64) (int64, bool, error) {
	return c.cachedTotal, c.totalHit, nil
}

func (c *fakeVoteCache) SetTotal(_ context.Context, _ uint64, total int64) error {
	c.setTotals = append(c.setTotals, total)
	return nil
}

func (c *fakeVoteCache) DeleteTotal(_ context.Context, _ uint64, _ ...time.Duration) error {
	c.deletes++
	return nil
}

type fakeLocker struct {
	acquire bool
}

func (l *fakeLocker) Acquire(_ context.Context, _ uint64, _ string) (bool, error) {
	return l.acquire, nil
}

func (l *fakeLocker) Release(_ context.Context, _ uint64, _ string) error { return nil }

type fakeDoubtStore struct {
	doubts  map[uint64]*model.Doubt
	nextID  uint64
	listErr error
}

func newFakeDoubtStore(doubts ...*model.Doubt) *fakeDoubtStore {
	s := &fakeDoubtStore{doubts: make(map[uint64]*model.Doubt), nextID: 1}
	for _, d := range doubts {
		s.doubts[d.ID] = d
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
	}
	return s
}

func (s *fakeDoubtStore) Create(_ context.Context, doubt *model.Doubt) error {
	doubt.ID = s.nextID
	s.nextID++
	doubt.CreatedAt = time.Now()
	s.doubts[doubt.ID] = doubt
	return nil
}

func (s *fakeDoubtStore) FindByID(_ context.Context, id uint64) (*model.Doubt, error) {
	d, ok := s.doubts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (s *fakeDoubtStore) IncrementViews(_ context.Context, id uint64) error {
	d, ok := s.doubts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Views++
	return nil
}

func (s *fakeDoubtStore) ListAll(_ context.Context, includeHidden bool) ([]model.Doubt, error) {
	var out []model.Doubt
	for _, d := range s.doubts {
		if !includeHidden && d.Status == model.StatusHidden {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeDoubtStore) ListByAuthor(_ context.Context, authorID uint64) ([]model.Doubt, error) {
	var out []model.Doubt
	for _, d := range s.doubts {
		if d.AuthorID == authorID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDoubtStore) FindSimilar(_ context.Context, title string, limit int) ([]model.DoubtRef, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.DoubtRef
	needle := strings.ToLower(title)
	for _, d := range s.doubts {
		if d.Status == model.StatusHidden {
			continue
		}
		if strings.Contains(strings.ToLower(d.Title), needle) {
			out = append(out, model.DoubtRef{ID: d.ID, Title: d.Title})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeDoubtStore) Stats(_ context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	for _, d := range s.doubts {
		if d.Status == model.StatusHidden {
			continue
		}
		stats.Total++
		if d.Status == model.StatusResolved {
			stats.Resolved++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

func (s *fakeDoubtStore) Recent(_ context.Context, n int) ([]model.Doubt, error) {
	out, _ := s.ListAll(context.Background(), false)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *fakeDoubtStore) Hide(_ context.Context, id, _ uint64) error {
	d, ok := s.doubts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Status = model.StatusHidden
	return nil
}

func (s *fakeDoubtStore) Delete(_ context.Context, id, _ uint64) error {
	if _, ok := s.doubts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.doubts, id)
	return nil
}

type fakeReplyStore struct {
	doubts  *fakeDoubtStore
	replies map[uint64][]model.Reply // doubtID -> replies
	nextID  uint64
}

func newFakeReplyStore(doubts *fakeDoubtStore) *fakeReplyStore {
	return &fakeReplyStore{doubts: doubts, replies: make(map[uint64][]model.Reply), nextID: 1}
}

func (s *fakeReplyStore) Append(_ context.Context, reply *model.Reply) ([]model.Reply, error) {
	if _, ok := s.doubts.doubts[reply.DoubtID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	reply.ID = s.nextID
	s.nextID++
	reply.CreatedAt = time.Now()
	s.replies[reply.DoubtID] = append(s.replies[reply.DoubtID], *reply)
	return s.replies[reply.DoubtID], nil
}

func (s *fakeReplyStore) SetApproval(_ context.Context, doubtID, replyID, _ uint64) (model.ApprovalOutcome, error) {
	doubt, ok := s.doubts.doubts[doubtID]
	if !ok {
		return model.ApprovalOutcome{}, gorm.ErrRecordNotFound
	}
	replies := s.replies[doubtID]
	idx := -1
	for i := range replies {
		if replies[i].ID == replyID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ApprovalOutcome{}, gorm.ErrRecordNotFound
	}

	wasApproved := replies[idx].Approved
	for i := range replies {
		replies[i].Approved = false
	}
	if !wasApproved {
		replies[idx].Approved = true
	}
	if doubt.Status != model.StatusHidden {
		doubt.Status = model.DeriveStatus(replies)
	}
	doubt.Replies = replies

	return model.ApprovalOutcome{
		Doubt:         doubt,
		ReplyAuthorID: replies[idx].AuthorID,
		Approved:      !wasApproved,
	}, nil
}

func (s *fakeReplyStore) ListByDoubt(_ context.Context, doubtID uint64) ([]model.Reply, error) {
	return s.replies[doubtID], nil
}

type fakeUserStore struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint64]*model.User), nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) UpsertGoogle(ctx context.Context, name, email, googleID, role string) (*model.User, error) {
	if u, err := s.FindByEmail(ctx, email); err == nil {
		u.GoogleID = googleID
		return u, nil
	}
	u := &model.User{
		Name:     name,
		Email:    email,
		Provider: model.ProviderGoogle,
		GoogleID: googleID,
		Role:     role,
		Status:   model.UserActive,
	}
	return u, s.Create(ctx, u)
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) SetStatus(_ context.Context, id uint64, status string) error {
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

type fakeSessionStore struct {
	tokens map[uint64]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: make(map[uint64]string)}
}

func (s *fakeSessionStore) AddUserToken(_ context.Context, userID uint64, token string) error {
	s.tokens[userID] = token
	return nil
}

func (s *fakeSessionStore) GetUserToken(_ context.Context, userID uint64) (string, error) {
	return s.tokens[userID], nil
}

func (s *fakeSessionStore) ExtendUserToken(_ context.Context, _ uint64) error { return nil }

func (s *fakeSessionStore) DeleteUserToken(_ context.Context, userID uint64) error {
	delete(s.tokens, userID)
	return nil
}

type fakeOutboxStore struct {
	userEvents []string
}

func (s *fakeOutboxStore) ListPending(_ context.Context, _ int) ([]model.DoubtOutbox, error) {
	return nil, nil
}

func (s *fakeOutboxStore) MarkSent(_ context.Context, _ uint64) error   { return nil }
func (s *fakeOutboxStore) MarkFailed(_ context.Context, _ uint64) error { return nil }

func (s *fakeOutboxStore) InsertUserEvent(_ context.Context, event string, _, _ uint64) error {
	s.userEvents = append(s.userEvents, event)
	return nil
}

type fakeNotifier struct {
	sentTo     []string
	sentTitles []string
}

func (n *fakeNotifier) ReplyApproved(_ context.Context, to, doubtTitle string) error {
	n.sentTo = append(n.sentTo, to)
	n.sentTitles = append(n.sentTitles, doubtTitle)
	return nil
}
