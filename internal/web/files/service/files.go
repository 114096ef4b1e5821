package service

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/storage"
	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	mongoSDK "github.com/Laisky/laisky-files-api/library/db/mongo"
)

const defaultContentType = "application/octet-stream"

// Upload validates the payload, persists content bytes first, then commits
// the metadata record. Images dispatch a thumbnail job on success.
//
// If the metadata commit fails after the content write, the stored content
// is an accepted leak; it is logged with its object name and never
// referenced by any record.
func (s *Drive) Upload(ctx context.Context, owner *model.User, req *dto.UploadRequest) (*model.File, error) {
	params, err := ParseFileParams(req)
	if err != nil {
		return nil, err
	}

	if !params.ParentID.IsZero() {
		parent, err := s.store.GetFileByID(ctx, params.ParentID)
		if err != nil {
			if mongoSDK.NotFound(err) {
				return nil, NewError(ErrCodeInvalidArgument, "Parent not found")
			}

			return nil, errors.Wrap(err, "load parent")
		}
		if parent.Type != model.FileTypeFolder {
			return nil, NewError(ErrCodeInvalidArgument, "Parent not found")
		}
	}

	f := model.NewFile()
	f.UserID = owner.ID
	f.Name = params.Name
	f.Type = params.Type
	f.IsPublic = params.IsPublic
	f.ParentID = params.ParentID

	if params.Type.HasContent() {
		f.LocalPath = uuid.NewString()
		if err := s.content.Store(ctx, f.LocalPath, params.Data); err != nil {
			s.logger.Error("store content", zap.Error(err),
				zap.String("local_path", f.LocalPath))
			return nil, NewError(ErrCodeStorage, "failed to store content")
		}
	}

	if err := s.store.CreateFile(ctx, f); err != nil {
		if f.LocalPath != "" {
			// content is already durable but unreferenced; leak it
			// rather than risk a metadata record pointing at nothing
			s.logger.Error("metadata commit failed, content orphaned",
				zap.Error(err), zap.String("local_path", f.LocalPath))
		} else {
			s.logger.Error("metadata commit failed", zap.Error(err))
		}
		return nil, NewError(ErrCodeStorage, "failed to save file")
	}

	if f.Type == model.FileTypeImage {
		s.dispatchThumbnail(ctx, f)
	}

	return f, nil
}

// Show returns a file's metadata, owner-only. Someone else's file looks
// exactly like a missing one.
func (s *Drive) Show(ctx context.Context, owner *model.User, idHex string) (*model.File, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, NewError(ErrCodeNotFound, "Not found")
	}

	f, err := s.store.GetFileForOwner(ctx, id, owner.ID)
	if err != nil {
		if mongoSDK.NotFound(err) {
			return nil, NewError(ErrCodeNotFound, "Not found")
		}

		return nil, errors.Wrap(err, "load file")
	}

	return f, nil
}

// List returns one page of the owner's files under the given parent.
// Misses are not errors: an unknown or foreign parent yields an empty page.
func (s *Drive) List(ctx context.Context, owner *model.User, parentIDRaw, pageRaw string) ([]*model.File, error) {
	page := NormalizePage(pageRaw)

	parentID := primitive.NilObjectID
	if parentIDRaw != "" && parentIDRaw != dto.RootParentID {
		var err error
		if parentID, err = primitive.ObjectIDFromHex(parentIDRaw); err != nil {
			return []*model.File{}, nil
		}
	}

	files, err := s.store.ListChildren(ctx, owner.ID, parentID, page)
	if err != nil {
		return nil, errors.Wrap(err, "list children")
	}

	return files, nil
}

// SetPublic toggles visibility, owner-only. Updated images re-dispatch the
// thumbnail job.
func (s *Drive) SetPublic(ctx context.Context, owner *model.User, idHex string, isPublic bool) (*model.File, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, NewError(ErrCodeNotFound, "Not found")
	}

	f, err := s.store.SetFilePublic(ctx, id, owner.ID, isPublic)
	if err != nil {
		if mongoSDK.NotFound(err) {
			return nil, NewError(ErrCodeNotFound, "Not found")
		}

		return nil, errors.Wrap(err, "update visibility")
	}

	if f.Type == model.FileTypeImage {
		s.dispatchThumbnail(ctx, f)
	}

	return f, nil
}

// GetContent returns the raw bytes of a file plus a content type derived
// from its name. Requester may be nil for anonymous reads of public files.
func (s *Drive) GetContent(ctx context.Context, requester *model.User, idHex, size string) ([]byte, string, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, "", NewError(ErrCodeNotFound, "Not found")
	}

	f, err := s.store.GetFileByID(ctx, id)
	if err != nil {
		if mongoSDK.NotFound(err) {
			return nil, "", NewError(ErrCodeNotFound, "Not found")
		}

		return nil, "", errors.Wrap(err, "load file")
	}

	// ownership hides existence
	if !f.IsPublic && (requester == nil || requester.ID != f.UserID) {
		return nil, "", NewError(ErrCodeNotFound, "Not found")
	}

	if f.Type == model.FileTypeFolder {
		return nil, "", NewError(ErrCodeIsFolder, "A folder doesn't have content")
	}

	name := f.LocalPath
	if size != "" {
		if !model.ValidThumbnailSize(size) {
			return nil, "", NewError(ErrCodeInvalidArgument, "Invalid size")
		}
		name = model.ThumbnailName(f.LocalPath, size)
	}

	data, err := s.content.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			// metadata references bytes that are gone; report like a
			// missing file
			return nil, "", NewError(ErrCodeNotFound, "Not found")
		}

		s.logger.Error("open content", zap.Error(err), zap.String("local_path", name))
		return nil, "", NewError(ErrCodeStorage, "failed to read content")
	}

	return data, contentTypeForName(f.Name), nil
}

func (s *Drive) dispatchThumbnail(ctx context.Context, f *model.File) {
	// best effort, the request already succeeded
	if err := s.tasks.AddThumbnailTask(ctx, f.ID.Hex(), f.UserID.Hex()); err != nil {
		s.logger.Warn("enqueue thumbnail task",
			zap.Error(err), zap.String("file", f.ID.Hex()))
	}
}

func contentTypeForName(name string) string {
	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ctype == "" {
		return defaultContentType
	}

	return ctype
}
