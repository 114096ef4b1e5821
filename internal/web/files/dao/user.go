package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// CreateUser inserts a new user record.
func (d *Drive) CreateUser(ctx context.Context, u *model.User) error {
	if _, err := d.GetUsersCol().InsertOne(ctx, u); err != nil {
		return errors.Wrapf(err, "insert user %q", u.Email)
	}

	d.logger.Info("insert new user", zap.String("email", u.Email))
	return nil
}

// GetUserByEmail loads a user by email.
func (d *Drive) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := new(model.User)
	if err := d.GetUsersCol().
		FindOne(ctx, bson.D{{Key: "email", Value: email}}).
		Decode(u); err != nil {
		return nil, errors.Wrapf(err, "find user %q", email)
	}

	return u, nil
}

// GetUserByID loads a user by id.
func (d *Drive) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	u := new(model.User)
	if err := d.GetUsersCol().
		FindOne(ctx, bson.D{{Key: "_id", Value: id}}).
		Decode(u); err != nil {
		return nil, errors.Wrapf(err, "find user %q", id.Hex())
	}

	return u, nil
}

// CountUsers returns the total number of user records.
func (d *Drive) CountUsers(ctx context.Context) (int64, error) {
	n, err := d.GetUsersCol().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "count users")
	}

	return n, nil
}
