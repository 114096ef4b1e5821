package redis

import "time"

// ThumbnailTask asks the worker to generate size variants for an image file.
type ThumbnailTask struct {
	FileID    string    `json:"file_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WelcomeTask asks the worker to greet a freshly registered user.
type WelcomeTask struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
