package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/api/handler/v1/response"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/service"
)

// Guard authorizes the caller of a request.
type Guard interface {
	RequireSession(ctx context.Context) (domain.Person, error)
	RequireRole(ctx context.Context, roles ...domain.Role) (domain.Person, error)
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.MessageResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "OK"})
}

// getPersonFromContext resolves the caller. With no roles any open session
// is enough.
func getPersonFromContext(ctx *gin.Context, guard Guard, roles ...domain.Role) (domain.Person, *response.Err) {
	var (
		person domain.Person
		err    error
	)
	if len(roles) == 0 {
		person, err = guard.RequireSession(ctx.Request.Context())
	} else {
		person, err = guard.RequireRole(ctx.Request.Context(), roles...)
	}
	if err != nil {
		return domain.Person{}, response.FromError(fmt.Errorf("guard -> %w", err))
	}

	return person, nil
}

func pathID(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

// bindBody binds JSON or form bodies into req. Oversized bodies are
// reported as such instead of as malformed input.
func bindBody(ctx *gin.Context, req any) *response.Err {
	if err := ctx.ShouldBind(req); err != nil {
		return bodyErr(err)
	}

	return nil
}

func bodyErr(err error) *response.Err {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return response.ErrPayloadTooLarge(err, tooLarge.Limit)
	}

	return response.ErrBadRequest(err)
}

// formUpload opens an optional file part. The returned close func is never
// nil.
func formUpload(ctx *gin.Context, field string) (*service.Upload, func(), *response.Err) {
	noop := func() {}
	if ctx.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, noop, nil
	}

	header, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, bodyErr(err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, response.ErrInternalServerError(fmt.Errorf("header.Open -> %w", err))
	}

	return &service.Upload{Filename: header.Filename, Body: file}, closer(file), nil
}

func closer(file multipart.File) func() {
	return func() { _ = file.Close() }
}
