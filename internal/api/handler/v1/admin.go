package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/api/handler/v1/request"
	"github.com/edugamify/classroom-api/internal/api/handler/v1/response"
	"github.com/edugamify/classroom-api/internal/domain"
)

type AdminService interface {
	ListPersons(ctx context.Context) ([]domain.Person, error)
	DeletePerson(ctx context.Context, actorID, personID uint) error
	ChangeRole(ctx context.Context, personID uint, role string) (domain.Person, error)
	CreateTrophy(ctx context.Context, trophy domain.Trophy) (domain.Trophy, error)
	CreateActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	EvaluateTrophies(ctx context.Context, personID uint) ([]domain.Trophy, error)
}

type AdminHandler struct {
	svc   AdminService
	guard Guard
}

func NewAdminHandler(svc AdminService, guard Guard) *AdminHandler {
	return &AdminHandler{
		svc:   svc,
		guard: guard,
	}
}

// HandleListPersons godoc
// @Summary      List every person
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Person
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/persons [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListPersons(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	persons, err := h.svc.ListPersons(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPersons -> h.svc.ListPersons -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, persons)
}

// HandleDeletePerson godoc
// @Summary      Delete a person and everything they own
// @Tags         admin
// @Produce      json
// @Param        personID  path      int  true  "person id"
// @Success      200       {object}  response.MessageResponse
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /admin/persons/{personID} [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleDeletePerson(ctx *gin.Context) {
	admin, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	personID, respErr := pathID(ctx, "personID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePerson(ctx.Request.Context(), admin.ID, personID); err != nil {
		err = fmt.Errorf("v1.HandleDeletePerson -> h.svc.DeletePerson -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "person deleted"})
}

// HandleChangeRole godoc
// @Summary      Change the role of a person
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        personID  path      int                        true  "person id"
// @Param        request   body      request.ChangeRoleRequest  true  "request body"
// @Success      200       {object}  domain.Person
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /admin/persons/{personID}/role [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleChangeRole(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	personID, respErr := pathID(ctx, "personID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	person, err := h.svc.ChangeRole(ctx.Request.Context(), personID, req.Role)
	if err != nil {
		err = fmt.Errorf("v1.HandleChangeRole -> h.svc.ChangeRole -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, person)
}

// HandleCreateTrophy godoc
// @Summary      Create a trophy
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTrophyRequest  true  "request body"
// @Success      201      {object}  domain.Trophy
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/trophies [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateTrophy(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTrophyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	trophy, err := h.svc.CreateTrophy(ctx.Request.Context(), domain.Trophy{
		Name:           req.Name,
		Description:    req.Description,
		PointsRequired: *req.PointsRequired,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTrophy -> h.svc.CreateTrophy -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, trophy)
}

// HandleCreateActivity godoc
// @Summary      Create a game activity
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateActivityRequest  true  "request body"
// @Success      201      {object}  domain.Activity
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/activities [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateActivity(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	activity, err := h.svc.CreateActivity(ctx.Request.Context(), domain.Activity{
		Name:          req.Name,
		Description:   req.Description,
		PointsPerPlay: *req.PointsPerPlay,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateActivity -> h.svc.CreateActivity -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, activity)
}

// HandleEvaluateTrophies godoc
// @Summary      Re-run trophy evaluation for a person
// @Tags         admin
// @Produce      json
// @Param        personID  path      int  true  "person id"
// @Success      200       {array}   domain.Trophy
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /admin/persons/{personID}/trophies/evaluate [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleEvaluateTrophies(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	personID, respErr := pathID(ctx, "personID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	granted, err := h.svc.EvaluateTrophies(ctx.Request.Context(), personID)
	if err != nil {
		err = fmt.Errorf("v1.HandleEvaluateTrophies -> h.svc.EvaluateTrophies -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, granted)
}
