// Package dto holds the externally visible representations of engine entities.
package dto

import (
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// RootParentID is the external spelling of the implicit root.
const RootParentID = "0"

// UploadRequest is the raw file creation payload before validation.
//
// ParentID is deliberately untyped: callers send either the literal 0 or a
// file id string, and the validation layer normalizes both.
type UploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID any    `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// FileMeta is the metadata response shape. Raw content location is never
// part of it.
type FileMeta struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// NewFileMeta serializes a file record.
func NewFileMeta(f *model.File) *FileMeta {
	parentID := RootParentID
	if !f.AtRoot() {
		parentID = f.ParentID.Hex()
	}

	return &FileMeta{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: parentID,
	}
}

// NewFileMetaList serializes a page of file records.
func NewFileMetaList(files []*model.File) []*FileMeta {
	out := make([]*FileMeta, 0, len(files))
	for _, f := range files {
		out = append(out, NewFileMeta(f))
	}

	return out
}

// UserInfo is the account response shape.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUserInfo serializes a user record.
func NewUserInfo(u *model.User) *UserInfo {
	return &UserInfo{
		ID:    u.ID.Hex(),
		Email: u.Email,
	}
}
