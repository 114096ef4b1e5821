package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// SetSession binds token to userID for ttl.
func (db *DB) SetSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := db.db.SetItem(ctx, keyPrefixAuth+token, userID, ttl); err != nil {
		return errors.Wrap(err, "set session")
	}

	return nil
}

// GetSession resolves token to the bound userID.
func (db *DB) GetSession(ctx context.Context, token string) (userID string, err error) {
	userID, err = db.db.GetItem(ctx, keyPrefixAuth+token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}

		return "", errors.Wrap(err, "get session")
	}
	if userID == "" {
		return "", ErrSessionNotFound
	}

	return userID, nil
}

// DelSession revokes the token.
func (db *DB) DelSession(ctx context.Context, token string) error {
	if err := db.db.Del(ctx, keyPrefixAuth+token).Err(); err != nil {
		return errors.Wrap(err, "del session")
	}

	return nil
}
