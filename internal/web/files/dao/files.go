package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// CreateFile inserts the metadata record.
func (d *Drive) CreateFile(ctx context.Context, f *model.File) error {
	if _, err := d.GetFilesCol().InsertOne(ctx, f); err != nil {
		return errors.Wrapf(err, "insert file %q", f.Name)
	}

	d.logger.Debug("insert file",
		zap.String("file", f.ID.Hex()),
		zap.String("type", string(f.Type)))
	return nil
}

// GetFileByID loads a file without any ownership filter.
func (d *Drive) GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	f := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.D{{Key: "_id", Value: id}}).
		Decode(f); err != nil {
		return nil, errors.Wrapf(err, "find file %q", id.Hex())
	}

	return f, nil
}

// GetFileForOwner loads a file scoped to its owner. A file owned by someone
// else is indistinguishable from a missing one.
func (d *Drive) GetFileForOwner(ctx context.Context, id, owner primitive.ObjectID) (*model.File, error) {
	f := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.D{
			{Key: "_id", Value: id},
			{Key: "user_id", Value: owner},
		}).
		Decode(f); err != nil {
		return nil, errors.Wrapf(err, "find file %q for owner", id.Hex())
	}

	return f, nil
}

// ListChildren returns one page of the owner's files under parentID,
// in insertion order. A parent with no children yields an empty slice.
func (d *Drive) ListChildren(ctx context.Context,
	owner, parentID primitive.ObjectID, page int) ([]*model.File, error) {
	cur, err := d.GetFilesCol().Find(ctx,
		bson.D{
			{Key: "user_id", Value: owner},
			{Key: "parent_id", Value: parentID},
		},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
		options.Find().SetSkip(int64(page*ListPageSize)),
		options.Find().SetLimit(int64(ListPageSize)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "find children")
	}
	defer cur.Close(ctx) // nolint:errcheck

	files := []*model.File{}
	if err = cur.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "load children")
	}

	return files, nil
}

// SetFilePublic flips the visibility flag, scoped to the owner, and returns
// the updated record.
func (d *Drive) SetFilePublic(ctx context.Context,
	id, owner primitive.ObjectID, isPublic bool) (*model.File, error) {
	f := new(model.File)
	if err := d.GetFilesCol().
		FindOneAndUpdate(ctx,
			bson.D{
				{Key: "_id", Value: id},
				{Key: "user_id", Value: owner},
			},
			bson.M{"$set": bson.M{"is_public": isPublic}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(f); err != nil {
		return nil, errors.Wrapf(err, "update file %q visibility", id.Hex())
	}

	return f, nil
}

// CountFiles returns the total number of file records.
func (d *Drive) CountFiles(ctx context.Context) (int64, error) {
	n, err := d.GetFilesCol().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "count files")
	}

	return n, nil
}
