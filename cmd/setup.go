package cmd

import (
	"context"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/Laisky/laisky-files-api/internal/storage"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
	rredis "github.com/Laisky/laisky-files-api/library/db/redis"
)

func dialMongo(ctx context.Context) (mongo.DB, error) {
	db, err := mongo.NewDB(ctx, mongo.DialInfo{
		Addr:   gconfig.Shared.GetString("settings.db.files.addr"),
		DBName: gconfig.Shared.GetString("settings.db.files.db"),
		User:   gconfig.Shared.GetString("settings.db.files.user"),
		Pwd:    gconfig.Shared.GetString("settings.db.files.pwd"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "dial mongo")
	}

	return db, nil
}

func dialRedis() *rredis.DB {
	return rredis.NewDB(&redis.Options{
		Addr:     gconfig.Shared.GetString("settings.db.redis.addr"),
		Password: gconfig.Shared.GetString("settings.db.redis.password"),
		DB:       gconfig.Shared.GetInt("settings.db.redis.db"),
	})
}

// buildStorage selects the content backend from configuration,
// local disk by default.
func buildStorage() (storage.Backend, error) {
	switch backend := gconfig.Shared.GetString("settings.storage.backend"); backend {
	case "", "local":
		return storage.NewLocalBackend(gconfig.Shared.GetString("settings.storage.local.dir"))
	case "minio":
		cli, err := minio.New(
			gconfig.Shared.GetString("settings.storage.minio.endpoint"),
			&minio.Options{
				Creds: credentials.NewStaticV4(
					gconfig.Shared.GetString("settings.storage.minio.access_key"),
					gconfig.Shared.GetString("settings.storage.minio.secret_key"),
					"",
				),
				Secure: gconfig.Shared.GetBool("settings.storage.minio.secure"),
			},
		)
		if err != nil {
			return nil, errors.Wrap(err, "dial minio")
		}

		return storage.NewMinioBackend(cli,
			gconfig.Shared.GetString("settings.storage.minio.bucket"),
			gconfig.Shared.GetString("settings.storage.minio.prefix"),
		)
	default:
		return nil, errors.Errorf("unknown storage backend `%s`", backend)
	}
}
