package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
)

func (c *Files) upload(ctx *gin.Context) {
	user, ok := c.requireUser(ctx)
	if !ok {
		return
	}

	req := new(dto.UploadRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		c.abortErr(ctx, service.NewError(service.ErrCodeInvalidArgument, "Missing name"))
		return
	}

	f, err := c.svc.Upload(ctx.Request.Context(), user, req)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewFileMeta(f))
}

func (c *Files) show(ctx *gin.Context) {
	user, ok := c.requireUser(ctx)
	if !ok {
		return
	}

	f, err := c.svc.Show(ctx.Request.Context(), user, ctx.Param("id"))
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFileMeta(f))
}

func (c *Files) list(ctx *gin.Context) {
	user, ok := c.requireUser(ctx)
	if !ok {
		return
	}

	files, err := c.svc.List(ctx.Request.Context(), user,
		ctx.DefaultQuery("parentId", dto.RootParentID),
		ctx.DefaultQuery("page", "0"),
	)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFileMetaList(files))
}

func (c *Files) publish(ctx *gin.Context) {
	c.setPublic(ctx, true)
}

func (c *Files) unpublish(ctx *gin.Context) {
	c.setPublic(ctx, false)
}

func (c *Files) setPublic(ctx *gin.Context, isPublic bool) {
	user, ok := c.requireUser(ctx)
	if !ok {
		return
	}

	f, err := c.svc.SetPublic(ctx.Request.Context(), user, ctx.Param("id"), isPublic)
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFileMeta(f))
}

func (c *Files) content(ctx *gin.Context) {
	// anonymous reads are allowed for public files; an invalid token is
	// simply an anonymous requester here
	user, _ := c.svc.Authenticate(ctx.Request.Context(), ctx.GetHeader(TokenHeader))

	data, ctype, err := c.svc.GetContent(ctx.Request.Context(), user,
		ctx.Param("id"), ctx.Query("size"))
	if err != nil {
		c.abortErr(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, ctype, data)
}
