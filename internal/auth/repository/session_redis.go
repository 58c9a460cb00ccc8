package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	authdomain "receipt-backend/internal/auth/domain"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sess:"

// redisSessionRepository keeps sessions in Redis; expiry is enforced with key TTLs.
type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl}
}

func (r *redisSessionRepository) Find(ctx context.Context, id string) (*authdomain.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess authdomain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, sess *authdomain.Session) error {
	touch(sess, time.Now(), r.ttl)
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+sess.ID, data, r.ttl).Err(); err != nil {
		return err
	}
	sess.MarkSaved()
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}
