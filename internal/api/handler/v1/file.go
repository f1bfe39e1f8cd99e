package v1

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/api/handler/v1/response"
)

type FileStore interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

type FileHandler struct {
	blobs FileStore
	guard Guard
}

func NewFileHandler(blobs FileStore, guard Guard) *FileHandler {
	return &FileHandler{
		blobs: blobs,
		guard: guard,
	}
}

// HandleGetFile godoc
// @Summary      Download a stored file
// @Tags         files
// @Produce      octet-stream
// @Param        category  path  string  true  "profile, coursework or submission"
// @Param        name      path  string  true  "file name"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /files/{category}/{name} [get]
// @Security     BearerAuth
func (h *FileHandler) HandleGetFile(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	name := ctx.Param("name")
	body, err := h.blobs.Open(ctx.Request.Context(), ctx.Param("category")+"/"+name)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetFile -> h.blobs.Open -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}
