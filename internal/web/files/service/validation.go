package service

import (
	"encoding/base64"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// FileParams is the normalized, strongly-typed creation payload.
// ParentID is the zero ObjectID for the implicit root.
type FileParams struct {
	Name     string
	Type     model.FileType
	ParentID primitive.ObjectID
	IsPublic bool
	Data     []byte
}

// ParseFileParams validates a raw creation payload. Rules are checked in
// order and the first failure wins; no side effects. Parent existence is
// the caller's job since it needs a metadata lookup.
func ParseFileParams(req *dto.UploadRequest) (*FileParams, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, NewError(ErrCodeInvalidArgument, "Missing name")
	}

	ftype := model.FileType(req.Type)
	if !ftype.Valid() {
		return nil, NewError(ErrCodeInvalidArgument, "Missing type")
	}

	var data []byte
	if ftype.HasContent() {
		if req.Data == "" {
			return nil, NewError(ErrCodeInvalidArgument, "Missing data")
		}

		var err error
		if data, err = base64.StdEncoding.DecodeString(req.Data); err != nil {
			return nil, NewError(ErrCodeInvalidArgument, "Invalid data")
		}
	}

	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		return nil, err
	}

	return &FileParams{
		Name:     strings.TrimSpace(req.Name),
		Type:     ftype,
		ParentID: parentID,
		IsPublic: req.IsPublic,
		Data:     data,
	}, nil
}

// parseParentID normalizes the loosely-typed parentId field. JSON callers
// send the literal 0, a numeric string, or a file id hex string.
func parseParentID(raw any) (primitive.ObjectID, error) {
	switch v := raw.(type) {
	case nil:
		return primitive.NilObjectID, nil
	case float64:
		if v == 0 {
			return primitive.NilObjectID, nil
		}
		return primitive.NilObjectID, NewError(ErrCodeInvalidArgument, "Parent not found")
	case string:
		if v == "" || v == dto.RootParentID {
			return primitive.NilObjectID, nil
		}

		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID, NewError(ErrCodeInvalidArgument, "Parent not found")
		}
		return id, nil
	default:
		return primitive.NilObjectID, NewError(ErrCodeInvalidArgument, "Parent not found")
	}
}

// NormalizePage clamps a raw page query value to a non-negative page
// number; anything unparsable means the first page.
func NormalizePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}

	return page
}
