package redis

import "time"

const (
	keyPrefix     = "files/"
	keyPrefixAuth = keyPrefix + "auth/"
	keyPrefixTask = keyPrefix + "tasks/"

	// KeyTaskThumbnail is the queue for image thumbnail jobs
	KeyTaskThumbnail = keyPrefixTask + "thumbnail"
	// KeyTaskWelcome is the queue for welcome notification jobs
	KeyTaskWelcome = keyPrefixTask + "welcome"

	// SessionTTL is how long an issued token stays valid
	SessionTTL = 24 * time.Hour
)
