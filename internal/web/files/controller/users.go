package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Files) register(ctx *gin.Context) {
	req := new(registerRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		c.abortErr(ctx, service.NewError(service.ErrCodeInvalidArgument, "Missing email"))
		return
	}

	user, err := c.svc.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewUserInfo(user))
}

func (c *Files) connect(ctx *gin.Context) {
	email, password, ok := ctx.Request.BasicAuth()
	if !ok {
		c.abortErr(ctx, service.NewError(service.ErrCodeUnauthorized, "Unauthorized"))
		return
	}

	token, err := c.svc.SignIn(ctx.Request.Context(), email, password)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (c *Files) disconnect(ctx *gin.Context) {
	if err := c.svc.SignOut(ctx.Request.Context(), ctx.GetHeader(TokenHeader)); err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Files) me(ctx *gin.Context) {
	user, ok := c.requireUser(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, dto.NewUserInfo(user))
}
