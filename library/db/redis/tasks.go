package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// AddThumbnailTask enqueues a thumbnail job for an image file
func (db *DB) AddThumbnailTask(ctx context.Context, fileID, userID string) error {
	task := &ThumbnailTask{
		FileID:    fileID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := db.db.RPush(ctx, KeyTaskThumbnail, []interface{}{task}); err != nil {
		return errors.Wrap(err, "rpush")
	}

	return nil
}

// AddWelcomeTask enqueues a welcome job for a new user
func (db *DB) AddWelcomeTask(ctx context.Context, userID string) error {
	task := &WelcomeTask{
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := db.db.RPush(ctx, KeyTaskWelcome, []interface{}{task}); err != nil {
		return errors.Wrap(err, "rpush")
	}

	return nil
}

// PopThumbnailTask blocks up to timeout waiting for the next thumbnail job.
// Returns nil without error when the queue stays empty.
func (db *DB) PopThumbnailTask(ctx context.Context, timeout time.Duration) (*ThumbnailTask, error) {
	payload, err := db.blpop(ctx, KeyTaskThumbnail, timeout)
	if err != nil || payload == "" {
		return nil, err
	}

	task := new(ThumbnailTask)
	if err := json.Unmarshal([]byte(payload), task); err != nil {
		return nil, errors.Wrap(err, "unmarshal thumbnail task")
	}

	return task, nil
}

// PopWelcomeTask blocks up to timeout waiting for the next welcome job.
// Returns nil without error when the queue stays empty.
func (db *DB) PopWelcomeTask(ctx context.Context, timeout time.Duration) (*WelcomeTask, error) {
	payload, err := db.blpop(ctx, KeyTaskWelcome, timeout)
	if err != nil || payload == "" {
		return nil, err
	}

	task := new(WelcomeTask)
	if err := json.Unmarshal([]byte(payload), task); err != nil {
		return nil, errors.Wrap(err, "unmarshal welcome task")
	}

	return task, nil
}

func (db *DB) blpop(ctx context.Context, key string, timeout time.Duration) (string, error) {
	vals, err := db.rdb.BLPop(ctx, timeout, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		return "", errors.Wrap(err, "blpop")
	}
	if len(vals) != 2 {
		return "", nil
	}

	return vals[1], nil
}
