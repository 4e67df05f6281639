package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Doubts_Clearance/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	voteSetTTL = 24 * time.Hour
	voteCntTTL = 24 * time.Hour
	lockTTL    = 300 * time.Millisecond

	upSetKeyPrefix   = "vote:up:doubt"  // set of user ids that upvoted
	downSetKeyPrefix = "vote:down:doubt"
	voteCntKeyPrefix = "vote:cnt:doubt" // cached vote total
	lockKeyPrefix    = "lock:vote:doubt"
)

// VoteCacheRepository keeps the per-doubt vote sets and the derived total in
// redis. MySQL stays the source of truth; the cache is refilled lazily and
// dropped whenever contention makes a stale value possible.
type VoteCacheRepository struct {
	setTTL time.Duration
	cntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewVoteCacheRepository() *VoteCacheRepository {
	return &VoteCacheRepository{
		setTTL: voteSetTTL,
		cntTTL: voteCntTTL,
	}
}

func upSetKey(doubtID uint64) string   { return fmt.Sprintf("%s:%d", upSetKeyPrefix, doubtID) }
func downSetKey(doubtID uint64) string { return fmt.Sprintf("%s:%d", downSetKeyPrefix, doubtID) }
func voteCntKey(doubtID uint64) string { return fmt.Sprintf("%s:%d", voteCntKeyPrefix, doubtID) }

// ApplyVote mirrors a committed vote transition into the member sets: the
// user leaves both sets, then joins the one matching the new value (none on
// retraction). Call only after the database write succeeded.
func (r *VoteCacheRepository) ApplyVote(ctx context.Context, doubtID, userID uint64, value int8) error {
	up, down := upSetKey(doubtID), downSetKey(doubtID)
	if err := Client.SRem(ctx, up, userID).Err(); err != nil {
		return err
	}
	if err := Client.SRem(ctx, down, userID).Err(); err != nil {
		return err
	}
	switch value {
	case model.VoteUp:
		if err := Client.SAdd(ctx, up, userID).Err(); err != nil {
			return err
		}
	case model.VoteDown:
		if err := Client.SAdd(ctx, down, userID).Err(); err != nil {
			return err
		}
	}
	_ = Client.Expire(ctx, up, r.setTTL).Err()
	_ = Client.Expire(ctx, down, r.setTTL).Err()
	return nil
}

// VotedCached reports the user's cached vote. The second return is false on a
// cache miss (neither set exists).
func (r *VoteCacheRepository) VotedCached(ctx context.Context, doubtID, userID uint64) (int8, bool, error) {
	up, down := upSetKey(doubtID), downSetKey(doubtID)
	exists, err := Client.Exists(ctx, up, down).Result()
	if err != nil {
		return model.VoteNone, false, err
	}
	if exists == 0 {
		return model.VoteNone, false, nil
	}
	if member, err := Client.SIsMember(ctx, up, userID).Result(); err != nil {
		return model.VoteNone, false, err
	} else if member {
		return model.VoteUp, true, nil
	}
	if member, err := Client.SIsMember(ctx, down, userID).Result(); err != nil {
		return model.VoteNone, false, err
	} else if member {
		return model.VoteDown, true, nil
	}
	return model.VoteNone, true, nil
}

// WarmVoted backfills the sets lazily: only when they already exist, so a
// cold doubt does not grow unbounded cache state.
func (r *VoteCacheRepository) WarmVoted(ctx context.Context, doubtID, userID uint64, value int8) {
	up, down := upSetKey(doubtID), downSetKey(doubtID)
	if n, _ := Client.Exists(ctx, up, down).Result(); n == 0 {
		return
	}
	_ = Client.SRem(ctx, up, userID).Err()
	_ = Client.SRem(ctx, down, userID).Err()
	switch value {
	case model.VoteUp:
		_ = Client.SAdd(ctx, up, userID).Err()
	case model.VoteDown:
		_ = Client.SAdd(ctx, down, userID).Err()
	}
	_ = Client.Expire(ctx, up, r.setTTL).Err()
	_ = Client.Expire(ctx, down, r.setTTL).Err()
}

// GetTotalCached reads the cached vote total; second return is false on miss.
func (r *VoteCacheRepository) GetTotalCached(ctx context.Context, doubtID uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, voteCntKey(doubtID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetTotal overwrites the cached vote total.
func (r *VoteCacheRepository) SetTotal(ctx context.Context, doubtID uint64, total int64) error {
	return Client.Set(ctx, voteCntKey(doubtID), total, r.cntTTL).Err()
}

// DeleteTotal drops the cached total, with an optional delayed second delete
// to close the concurrent-backfill window.
func (r *VoteCacheRepository) DeleteTotal(ctx context.Context, doubtID uint64, delay ...time.Duration) error {
	key := voteCntKey(doubtID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// Acquire takes the per-doubt lock guarding count rebuilds.
func (l *DistLock) Acquire(ctx context.Context, doubtID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", lockKeyPrefix, doubtID)
	return l.RDB.SetNX(ctx, key, token, lockTTL).Result()
}

// Release frees the lock only when the token still matches.
func (l *DistLock) Release(ctx context.Context, doubtID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", lockKeyPrefix, doubtID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
