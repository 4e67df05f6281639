package service

import (
	"context"
	"testing"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVoteFixture(t *testing.T) (*VoteService, *fakeVoteStore, *fakeReputationStore, *fakeVoteCache) {
	t.Helper()
	doubt := &model.Doubt{ID: 1, Title: "segfault in lab 3", AuthorID: 10, Status: model.StatusPending}
	votes := newFakeVoteStore(doubt)
	reputation := newFakeReputationStore()
	cache := &fakeVoteCache{}
	svc := NewVoteService(votes, reputation, cache, &fakeLocker{acquire: true}, nil, zap.NewNop())
	return svc, votes, reputation, cache
}

func TestParseVoteType(t *testing.T) {
	for in, want := range map[string]int8{"UP": model.VoteUp, "up": model.VoteUp, " down ": model.VoteDown} {
		got, err := ParseVoteType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseVoteType("sideways")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestVoteCast(t *testing.T) {
	svc, _, reputation, _ := newVoteFixture(t)

	counts, err := svc.Apply(context.Background(), 1, 20, "UP")
	require.NoError(t, err)
	assert.Equal(t, model.VoteCounts{VoteTotal: 1, Upvotes: 1, Downvotes: 0}, counts)
	assert.Equal(t, model.RepUpvote, reputation.balances[10])
}

func TestVoteRepeatRetracts(t *testing.T) {
	svc, votes, reputation, _ := newVoteFixture(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 1, 20, "UP")
	require.NoError(t, err)
	counts, err := svc.Apply(ctx, 1, 20, "UP")
	require.NoError(t, err)

	assert.Equal(t, model.VoteCounts{}, counts)
	assert.Empty(t, votes.votes)
	// the cast and the retraction cancel out
	assert.Equal(t, int64(0), reputation.balances[10])
}

func TestVoteSwitchIsExclusive(t *testing.T) {
	svc, votes, _, _ := newVoteFixture(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 1, 20, "UP")
	require.NoError(t, err)
	counts, err := svc.Apply(ctx, 1, 20, "DOWN")
	require.NoError(t, err)

	assert.Equal(t, model.VoteCounts{VoteTotal: -1, Upvotes: 0, Downvotes: 1}, counts)
	assert.Equal(t, model.VoteDown, votes.votes[voteKey{doubtID: 1, userID: 20}])
}

func TestVoteTotalMatchesSets(t *testing.T) {
	svc, _, _, _ := newVoteFixture(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 1, 20, "UP")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, 1, 21, "UP")
	require.NoError(t, err)
	counts, err := svc.Apply(ctx, 1, 22, "DOWN")
	require.NoError(t, err)

	assert.Equal(t, counts.Upvotes-counts.Downvotes, counts.VoteTotal)
	assert.Equal(t, int64(1), counts.VoteTotal)
}

func TestVoteDownvoteClampsReputationAtZero(t *testing.T) {
	svc, _, reputation, _ := newVoteFixture(t)

	_, err := svc.Apply(context.Background(), 1, 20, "DOWN")
	require.NoError(t, err)
	assert.Equal(t, int64(0), reputation.balances[10])
}

func TestVoteUnknownDoubt(t *testing.T) {
	svc, _, _, _ := newVoteFixture(t)

	_, err := svc.Apply(context.Background(), 99, 20, "UP")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestVoteInvalidType(t *testing.T) {
	svc, votes, _, _ := newVoteFixture(t)

	_, err := svc.Apply(context.Background(), 1, 20, "MAYBE")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, votes.votes)
}

func TestVoteCacheWrittenUnderLock(t *testing.T) {
	svc, _, _, cache := newVoteFixture(t)

	_, err := svc.Apply(context.Background(), 1, 20, "UP")
	require.NoError(t, err)

	assert.Equal(t, []int8{model.VoteUp}, cache.applied)
	assert.Equal(t, []int64{1}, cache.setTotals)
	assert.Zero(t, cache.deletes)
}

func TestCallerVoteServedFromCache(t *testing.T) {
	svc, _, _, cache := newVoteFixture(t)
	cache.cachedVote = model.VoteDown
	cache.cachedHit = true

	value, err := svc.CallerVote(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, model.VoteDown, value)
	// no backfill on a hit
	assert.Empty(t, cache.warmed)
}

func TestCallerVoteFallsBackAndWarms(t *testing.T) {
	svc, votes, _, cache := newVoteFixture(t)
	votes.votes[voteKey{doubtID: 1, userID: 20}] = model.VoteUp

	value, err := svc.CallerVote(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, model.VoteUp, value)
	assert.Equal(t, []int8{model.VoteUp}, cache.warmed)
}

func TestCallerVoteNoRow(t *testing.T) {
	svc, _, _, cache := newVoteFixture(t)

	value, err := svc.CallerVote(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, model.VoteNone, value)
	assert.Equal(t, []int8{model.VoteNone}, cache.warmed)
}

func TestTotalServedFromCache(t *testing.T) {
	svc, _, _, cache := newVoteFixture(t)
	cache.cachedTotal = 7
	cache.totalHit = true

	total, err := svc.Total(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	// no refill on a hit
	assert.Empty(t, cache.setTotals)
}

func TestTotalFallsBackAndRefills(t *testing.T) {
	svc, votes, _, cache := newVoteFixture(t)
	votes.doubts[1].VoteTotal = 3

	total, err := svc.Total(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int64{3}, cache.setTotals)
}

func TestTotalUnknownDoubt(t *testing.T) {
	svc, _, _, _ := newVoteFixture(t)

	_, err := svc.Total(context.Background(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestVoteCacheDroppedOnLockContention(t *testing.T) {
	doubt := &model.Doubt{ID: 1, AuthorID: 10}
	cache := &fakeVoteCache{}
	svc := NewVoteService(newFakeVoteStore(doubt), newFakeReputationStore(), cache, &fakeLocker{acquire: false}, nil, zap.NewNop())

	_, err := svc.Apply(context.Background(), 1, 20, "UP")
	require.NoError(t, err)

	assert.Empty(t, cache.setTotals)
	assert.Equal(t, 1, cache.deletes)
}
