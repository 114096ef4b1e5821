// Package dao contains the mongo data access objects for users and files.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"go.mongodb.org/mongo-driver/bson"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/laisky-files-api/library/db/mongo"
)

const (
	colUsers = "users"
	colFiles = "files"
)

// ListPageSize is the fixed page size for children listing.
const ListPageSize = 20

// Drive dao type
type Drive struct {
	logger logSDK.Logger
	db     mongo.DB
}

// New create new dao
func New(logger logSDK.Logger, db mongo.DB) *Drive {
	return &Drive{
		logger: logger,
		db:     db,
	}
}

// GetUsersCol get users collection
func (d *Drive) GetUsersCol() *mongoLib.Collection {
	return d.db.GetCol(colUsers)
}

// GetFilesCol get files collection
func (d *Drive) GetFilesCol() *mongoLib.Collection {
	return d.db.GetCol(colFiles)
}

// SetupIndexes creates the indexes the engine relies on.
func (d *Drive) SetupIndexes(ctx context.Context) error {
	// unique index for email
	if _, err := d.GetUsersCol().Indexes().CreateOne(ctx, mongoLib.IndexModel{
		Keys: bson.M{
			"email": 1,
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return errors.Wrap(err, "create index for email")
	}

	// children listing scans by owner and parent
	if _, err := d.GetFilesCol().Indexes().CreateOne(ctx, mongoLib.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "parent_id", Value: 1},
		},
	}); err != nil {
		return errors.Wrap(err, "create index for files")
	}

	return nil
}

// Ping checks the backing database is reachable.
func (d *Drive) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}
