package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"

	"property_reviews/internal/domain"
)

const DefaultKey = "reviews:approved"

// ApprovalStore keeps approved ids in a sorted set scored by an insertion
// sequence, so ZRANGE returns them in approval order and ZADD NX keeps the
// set free of duplicates without a client-side read-modify-write.
type ApprovalStore struct {
	c   redis.UniversalClient
	key string
}

func New(addr, pass string, db int, key string) *ApprovalStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewWithClient(c redis.UniversalClient, key string) *ApprovalStore {
	if key == "" {
		key = DefaultKey
	}
	return &ApprovalStore{c: c, key: key}
}

func (r *ApprovalStore) Load(ctx context.Context) (domain.ApprovalSnapshot, error) {
	ids, err := r.c.ZRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return domain.ApprovalSnapshot{ApprovedReviewIDs: ids}, nil
}

func (r *ApprovalStore) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	seq, err := r.c.Incr(ctx, r.key+":seq").Result()
	if err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	if err := r.c.ZAddNX(ctx, r.key, redis.Z{Score: float64(seq), Member: id}).Err(); err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	return r.Load(ctx)
}

func (r *ApprovalStore) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	if err := r.c.ZRem(ctx, r.key, id).Err(); err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	return r.Load(ctx)
}

func (r *ApprovalStore) Kind() string { return "redis" }

// Ping checks connectivity at startup.
func (r *ApprovalStore) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *ApprovalStore) Close() error { return r.c.Close() }
