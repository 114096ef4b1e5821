package cmd

import (
	"context"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-files-api/internal/web/files/dao"
	"github.com/Laisky/laisky-files-api/internal/worker"
	"github.com/Laisky/laisky-files-api/library/log"
)

var workerCMD = &cobra.Command{
	Use:   "worker",
	Short: "worker",
	Long:  `background worker for thumbnails and welcome greetings`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		mongoDB, err := dialMongo(ctx)
		if err != nil {
			log.Logger.Panic("dial mongo", zap.Error(err))
		}
		defer mongoDB.Close(ctx) // nolint:errcheck

		redisDB := dialRedis()
		defer redisDB.Close() // nolint:errcheck

		content, err := buildStorage()
		if err != nil {
			log.Logger.Panic("build storage", zap.Error(err))
		}

		driveDao := dao.New(log.Logger.Named("dao"), mongoDB)

		log.Logger.Info("worker started")
		worker.New(log.Logger.Named("worker"),
			driveDao, redisDB, content).Start(ctx)
	},
}

func init() {
	rootCMD.AddCommand(workerCMD)
}
