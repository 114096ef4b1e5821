// Package controller maps HTTP routes onto the engine. It owns no logic
// beyond payload binding and error-to-status translation.
package controller

import (
	"net/http"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
)

// TokenHeader carries the opaque session token.
const TokenHeader = "X-Token"

// Files controller type
type Files struct {
	logger logSDK.Logger
	svc    *service.Drive
}

// New create new controller
func New(logger logSDK.Logger, svc *service.Drive) *Files {
	return &Files{
		logger: logger,
		svc:    svc,
	}
}

// RegisterRoutes mounts all engine routes on the router.
func (c *Files) RegisterRoutes(r gin.IRouter) {
	r.GET("/status", c.status)
	r.GET("/stats", c.stats)

	r.POST("/users", c.register)
	r.GET("/connect", c.connect)
	r.GET("/disconnect", c.disconnect)
	r.GET("/users/me", c.me)

	r.POST("/files", c.upload)
	r.GET("/files", c.list)
	r.GET("/files/:id", c.show)
	r.PUT("/files/:id/publish", c.publish)
	r.PUT("/files/:id/unpublish", c.unpublish)
	r.GET("/files/:id/data", c.content)
}

// statusForCode maps engine error codes to HTTP statuses.
func statusForCode(code service.ErrorCode) int {
	switch code {
	case service.ErrCodeInvalidArgument, service.ErrCodeAlreadyExists, service.ErrCodeIsFolder:
		return http.StatusBadRequest
	case service.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortErr writes the structured failure reason. Internal error text never
// reaches the client.
func (c *Files) abortErr(ctx *gin.Context, err error) {
	if typed, ok := service.AsError(err); ok {
		ctx.AbortWithStatusJSON(statusForCode(typed.Code), gin.H{"error": typed.Message})
		return
	}

	c.logger.Error("handle request", zap.Error(err), zap.String("path", ctx.FullPath()))
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// requireUser authenticates the request token or aborts.
func (c *Files) requireUser(ctx *gin.Context) (*model.User, bool) {
	user, err := c.svc.Authenticate(ctx.Request.Context(), ctx.GetHeader(TokenHeader))
	if err != nil {
		c.abortErr(ctx, err)
		return nil, false
	}

	return user, true
}
