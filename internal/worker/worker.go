// Package worker drains the redis task queues: thumbnail generation for
// uploaded images and welcome greetings for new users.
package worker

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strconv"
	"time"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/nfnt/resize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/laisky-files-api/internal/storage"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	rredis "github.com/Laisky/laisky-files-api/library/db/redis"
)

const popTimeout = time.Second

// MetadataStore is the subset of the metadata dao the worker reads from.
type MetadataStore interface {
	GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// TaskSource delivers queued jobs. Implemented by the redis wrapper.
type TaskSource interface {
	PopThumbnailTask(ctx context.Context, timeout time.Duration) (*rredis.ThumbnailTask, error)
	PopWelcomeTask(ctx context.Context, timeout time.Duration) (*rredis.WelcomeTask, error)
}

// Worker consumes queued jobs until its context is cancelled.
type Worker struct {
	logger  logSDK.Logger
	store   MetadataStore
	tasks   TaskSource
	content storage.Backend
}

// New create new worker
func New(logger logSDK.Logger,
	store MetadataStore,
	tasks TaskSource,
	content storage.Backend,
) *Worker {
	return &Worker{
		logger:  logger,
		store:   store,
		tasks:   tasks,
		content: content,
	}
}

// Start runs both queue loops until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go w.loop(ctx, "welcome", w.runWelcomeOnce)
	w.loop(ctx, "thumbnail", w.runThumbnailOnce)
}

func (w *Worker) loop(ctx context.Context, name string, runOnce func(context.Context) error) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := runOnce(ctx); err != nil {
			w.logger.Warn("run task", zap.String("queue", name), zap.Error(err))
		}
	}
}

// runThumbnailOnce pops at most one thumbnail job and processes it.
func (w *Worker) runThumbnailOnce(ctx context.Context) error {
	task, err := w.tasks.PopThumbnailTask(ctx, popTimeout)
	if err != nil {
		return errors.Wrap(err, "pop thumbnail task")
	}
	if task == nil {
		return nil
	}

	if err := w.processThumbnail(ctx, task); err != nil {
		return errors.Wrapf(err, "process thumbnail for file `%s`", task.FileID)
	}

	w.logger.Info("generated thumbnails", zap.String("file_id", task.FileID))
	return nil
}

// processThumbnail renders every configured width variant of an image and
// stores each one next to the original under its derived name.
func (w *Worker) processThumbnail(ctx context.Context, task *rredis.ThumbnailTask) error {
	fid, err := primitive.ObjectIDFromHex(task.FileID)
	if err != nil {
		return errors.Wrapf(err, "parse file id `%s`", task.FileID)
	}

	f, err := w.store.GetFileByID(ctx, fid)
	if err != nil {
		return errors.Wrap(err, "load file")
	}
	if f.Type != model.FileTypeImage || f.LocalPath == "" {
		return errors.Errorf("file `%s` is not a stored image", task.FileID)
	}

	raw, err := w.content.Open(ctx, f.LocalPath)
	if err != nil {
		return errors.Wrap(err, "open original content")
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "decode image")
	}

	var pool errgroup.Group
	for _, width := range model.ThumbnailWidths {
		pool.Go(func() error {
			size := strconv.FormatUint(uint64(width), 10)
			scaled := resize.Resize(width, 0, img, resize.Lanczos3)

			encoded, err := encodeImage(scaled, format)
			if err != nil {
				return errors.Wrapf(err, "encode variant `%s`", size)
			}

			name := model.ThumbnailName(f.LocalPath, size)
			if err := w.content.Store(ctx, name, encoded); err != nil {
				return errors.Wrapf(err, "store variant `%s`", size)
			}

			return nil
		})
	}

	return pool.Wait()
}

// encodeImage writes img back in the format it was decoded from.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}

	return buf.Bytes(), nil
}

// runWelcomeOnce pops at most one welcome job and logs the greeting.
func (w *Worker) runWelcomeOnce(ctx context.Context) error {
	task, err := w.tasks.PopWelcomeTask(ctx, popTimeout)
	if err != nil {
		return errors.Wrap(err, "pop welcome task")
	}
	if task == nil {
		return nil
	}

	uid, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return errors.Wrapf(err, "parse user id `%s`", task.UserID)
	}

	user, err := w.store.GetUserByID(ctx, uid)
	if err != nil {
		return errors.Wrap(err, "load user")
	}

	w.logger.Info("welcome new user", zap.String("email", user.Email))
	return nil
}
