package model

import (
	"time"

	gutils "github.com/Laisky/go-utils/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileType file entity type
type FileType string

const (
	// FileTypeFolder organizes other files, never carries content
	FileTypeFolder FileType = "folder"
	// FileTypeFile plain content file
	FileTypeFile FileType = "file"
	// FileTypeImage content file with generated thumbnail variants
	FileTypeImage FileType = "image"
)

// Valid reports whether t is one of the accepted file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	default:
		return false
	}
}

// HasContent reports whether entities of this type carry stored bytes.
func (t FileType) HasContent() bool {
	return t == FileTypeFile || t == FileTypeImage
}

// File is the authoritative metadata record of a file or folder.
//
// ParentID is the zero ObjectID for entities living at the implicit root;
// otherwise it references another File whose Type is folder.
type File struct {
	// ID unique identifier, immutable after creation
	ID primitive.ObjectID `bson:"_id,omitempty" json:"mongo_id"`
	// UserID owner, set at creation and never changed
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	// CreatedAt insertion time
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	// Name display name, non-empty
	Name string `bson:"name" json:"name"`
	// Type folder/file/image
	Type FileType `bson:"type" json:"type"`
	// IsPublic whether anonymous content reads are allowed
	IsPublic bool `bson:"is_public" json:"is_public"`
	// ParentID hierarchy pointer, zero for root
	ParentID primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	// LocalPath opaque content name assigned by the storage backend,
	// empty for folders. Never exposed in metadata responses.
	LocalPath string `bson:"local_path,omitempty" json:"-"`
}

// AtRoot reports whether the file lives at the implicit root.
func (f *File) AtRoot() bool {
	return f.ParentID.IsZero()
}

// ThumbnailWidths are the pixel widths of the pre-generated image variants.
var ThumbnailWidths = []uint{500, 250, 100}

// ValidThumbnailSize reports whether size selects a generated variant.
func ValidThumbnailSize(size string) bool {
	switch size {
	case "500", "250", "100":
		return true
	default:
		return false
	}
}

// ThumbnailName is the storage name of the size variant of localPath.
func ThumbnailName(localPath, size string) string {
	return localPath + "_" + size
}

// NewFile create a new file record
func NewFile() *File {
	return &File{
		ID:        primitive.NewObjectID(),
		CreatedAt: gutils.Clock.GetUTCNow(),
	}
}
