package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Files) status(ctx *gin.Context) {
	alive := c.svc.Alive(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{
		"redis": alive.Redis,
		"db":    alive.DB,
	})
}

func (c *Files) stats(ctx *gin.Context) {
	users, files, err := c.svc.Stats(ctx.Request.Context())
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": users,
		"files": files,
	})
}
