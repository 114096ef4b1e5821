package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-files-api/internal/web"
	"github.com/Laisky/laisky-files-api/internal/web/files/controller"
	"github.com/Laisky/laisky-files-api/internal/web/files/dao"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
	"github.com/Laisky/laisky-files-api/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `HTTP API service for file storage`,
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
		if err := driveDao.SetupIndexes(ctx); err != nil {
			log.Logger.Panic("setup indexes", zap.Error(err))
		}

		svc := service.New(log.Logger.Named("service"),
			driveDao, redisDB, redisDB, content)
		ctl := controller.New(log.Logger.Named("controller"), svc)

		web.RunServer(gconfig.Shared.GetString("listen"), ctl)
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
