package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	mongoSDK "github.com/Laisky/laisky-files-api/library/db/mongo"
	redisSDK "github.com/Laisky/laisky-files-api/library/db/redis"
)

// hashPassword keeps the SHA1 hex scheme for compatibility with already
// stored records.
func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new user and dispatches the welcome job.
func (s *Drive) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, NewError(ErrCodeInvalidArgument, "Missing email")
	}
	if password == "" {
		return nil, NewError(ErrCodeInvalidArgument, "Missing password")
	}

	// check duplicate before insert; the unique index on email is the
	// authoritative guard against races
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, NewError(ErrCodeAlreadyExists, "Already exist")
	} else if !mongoSDK.NotFound(err) {
		return nil, errors.Wrap(err, "check duplicate email")
	}

	user := model.NewUser()
	user.Email = email
	user.Password = hashPassword(password)

	if err := s.store.CreateUser(ctx, user); err != nil {
		if mongoSDK.IsDup(err) {
			return nil, NewError(ErrCodeAlreadyExists, "Already exist")
		}

		return nil, errors.Wrapf(err, "insert user %q", email)
	}

	// best effort, the account exists either way
	if err := s.tasks.AddWelcomeTask(ctx, user.GetID()); err != nil {
		s.logger.Warn("enqueue welcome task",
			zap.Error(err), zap.String("user", user.GetID()))
	}

	return user, nil
}

// SignIn validates credentials and issues an opaque session token.
func (s *Drive) SignIn(ctx context.Context, email, password string) (token string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if mongoSDK.NotFound(err) {
			return "", NewError(ErrCodeUnauthorized, "Unauthorized")
		}

		return "", errors.Wrapf(err, "find user %q", email)
	}

	if user.Password != hashPassword(password) {
		return "", NewError(ErrCodeUnauthorized, "Unauthorized")
	}

	token = uuid.NewString()
	if err = s.sessions.SetSession(ctx, token, user.GetID(), redisSDK.SessionTTL); err != nil {
		return "", errors.Wrap(err, "set session")
	}

	s.logger.Debug("user signed in", zap.String("user", user.GetID()))
	return token, nil
}

// SignOut revokes the token. Unknown tokens are an authentication failure,
// not a silent no-op.
func (s *Drive) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return NewError(ErrCodeUnauthorized, "Unauthorized")
	}

	if _, err := s.sessions.GetSession(ctx, token); err != nil {
		if errors.Is(err, redisSDK.ErrSessionNotFound) {
			return NewError(ErrCodeUnauthorized, "Unauthorized")
		}

		return errors.Wrap(err, "get session")
	}

	if err := s.sessions.DelSession(ctx, token); err != nil {
		return errors.Wrap(err, "del session")
	}

	return nil
}

// Authenticate resolves a token to its user. A missing token, an expired
// session, and a vanished user all collapse into one unauthorized outcome.
func (s *Drive) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, NewError(ErrCodeUnauthorized, "Unauthorized")
	}

	uidHex, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, redisSDK.ErrSessionNotFound) {
			return nil, NewError(ErrCodeUnauthorized, "Unauthorized")
		}

		return nil, errors.Wrap(err, "get session")
	}

	uid, err := primitive.ObjectIDFromHex(uidHex)
	if err != nil {
		return nil, NewError(ErrCodeUnauthorized, "Unauthorized")
	}

	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		if mongoSDK.NotFound(err) {
			return nil, NewError(ErrCodeUnauthorized, "Unauthorized")
		}

		return nil, errors.Wrapf(err, "load user %q", uidHex)
	}

	return user, nil
}
