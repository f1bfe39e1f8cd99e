package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/api/handler/v1/request"
	"github.com/edugamify/classroom-api/internal/api/handler/v1/response"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/service"
)

type ModuleService interface {
	List(ctx context.Context) ([]domain.Module, error)
	Create(ctx context.Context, actor domain.Person, input service.NewModule) (domain.Module, error)
	Delete(ctx context.Context, actor domain.Person, moduleID uint) error
	Join(ctx context.Context, moduleID, studentID uint) (domain.Membership, error)
	Roster(ctx context.Context, moduleID uint) ([]domain.RosterEntry, error)
	ListResources(ctx context.Context, moduleID uint) ([]domain.Resource, error)
	CreateResource(ctx context.Context, moduleID uint, input service.NewResource) (domain.Resource, error)
	ListTasks(ctx context.Context, moduleID uint) ([]domain.Task, error)
	CreateTask(ctx context.Context, moduleID uint, input service.NewTask) (domain.Task, error)
}

type ModuleHandler struct {
	svc   ModuleService
	guard Guard
}

func NewModuleHandler(svc ModuleService, guard Guard) *ModuleHandler {
	return &ModuleHandler{
		svc:   svc,
		guard: guard,
	}
}

// HandleListModules godoc
// @Summary      List modules
// @Tags         modules
// @Produce      json
// @Success      200  {array}   domain.Module
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /modules [get]
// @Security     BearerAuth
func (h *ModuleHandler) HandleListModules(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	modules, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListModules -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, modules)
}

// HandleCreateModule godoc
// @Summary      Create a module
// @Description  A teacher becomes the owner. An admin may assign a teacher with teacher_id.
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateModuleRequest  true  "request body"
// @Success      201      {object}  domain.Module
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /modules [post]
// @Security     BearerAuth
func (h *ModuleHandler) HandleCreateModule(ctx *gin.Context) {
	actor, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	module, err := h.svc.Create(ctx.Request.Context(), actor, service.NewModule{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateModule -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, module)
}

// HandleDeleteModule godoc
// @Summary      Delete a module with its tasks, submissions, resources and memberships
// @Tags         modules
// @Produce      json
// @Param        moduleID  path      int  true  "module id"
// @Success      200       {object}  response.MessageResponse
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID} [delete]
// @Security     BearerAuth
func (h *ModuleHandler) HandleDeleteModule(ctx *gin.Context) {
	actor, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, moduleID); err != nil {
		err = fmt.Errorf("v1.HandleDeleteModule -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "module deleted"})
}

// HandleJoinModule godoc
// @Summary      Join a module as a student
// @Tags         modules
// @Produce      json
// @Param        moduleID  path      int  true  "module id"
// @Success      201       {object}  domain.Membership
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID}/join [post]
// @Security     BearerAuth
func (h *ModuleHandler) HandleJoinModule(ctx *gin.Context) {
	student, respErr := getPersonFromContext(ctx, h.guard, domain.RoleStudent)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	membership, err := h.svc.Join(ctx.Request.Context(), moduleID, student.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleJoinModule -> h.svc.Join -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, membership)
}

// HandleGetRoster godoc
// @Summary      List the students of a module
// @Tags         modules
// @Produce      json
// @Param        moduleID  path      int  true  "module id"
// @Success      200       {array}   domain.RosterEntry
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID}/roster [get]
// @Security     BearerAuth
func (h *ModuleHandler) HandleGetRoster(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roster, err := h.svc.Roster(ctx.Request.Context(), moduleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRoster -> h.svc.Roster -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, roster)
}

// HandleListResources godoc
// @Summary      List the resources of a module
// @Tags         modules
// @Produce      json
// @Param        moduleID  path      int  true  "module id"
// @Success      200       {array}   domain.Resource
// @Failure      401       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID}/resources [get]
// @Security     BearerAuth
func (h *ModuleHandler) HandleListResources(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	resources, err := h.svc.ListResources(ctx.Request.Context(), moduleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListResources -> h.svc.ListResources -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, resources)
}

// HandleCreateResource godoc
// @Summary      Add a course resource to a module
// @Tags         modules
// @Accept       mpfd,json
// @Produce      json
// @Param        moduleID     path      int     true   "module id"
// @Param        title        formData  string  true   "title"
// @Param        description  formData  string  false  "description"
// @Param        file         formData  file    false  "attached file"
// @Success      201          {object}  domain.Resource
// @Failure      400          {object}  response.Err
// @Failure      401          {object}  response.Err
// @Failure      403          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      413          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /modules/{moduleID}/resources [post]
// @Security     BearerAuth
func (h *ModuleHandler) HandleCreateResource(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateResourceRequest
	if respErr := bindBody(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	file, closeFile, respErr := formUpload(ctx, "file")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	defer closeFile()

	resource, err := h.svc.CreateResource(ctx.Request.Context(), moduleID, service.NewResource{
		Title:       req.Title,
		Description: req.Description,
		File:        file,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateResource -> h.svc.CreateResource -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, resource)
}

// HandleListTasks godoc
// @Summary      List the tasks of a module
// @Tags         modules
// @Produce      json
// @Param        moduleID  path      int  true  "module id"
// @Success      200       {array}   domain.Task
// @Failure      401       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID}/tasks [get]
// @Security     BearerAuth
func (h *ModuleHandler) HandleListTasks(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tasks, err := h.svc.ListTasks(ctx.Request.Context(), moduleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTasks -> h.svc.ListTasks -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// HandleCreateTask godoc
// @Summary      Add a task to a module
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        moduleID  path      int                        true  "module id"
// @Param        request   body      request.CreateTaskRequest  true  "request body"
// @Success      201       {object}  domain.Task
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /modules/{moduleID}/tasks [post]
// @Security     BearerAuth
func (h *ModuleHandler) HandleCreateTask(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	moduleID, respErr := pathID(ctx, "moduleID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	task, err := h.svc.CreateTask(ctx.Request.Context(), moduleID, service.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		DueAt:       req.DueAt,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTask -> h.svc.CreateTask -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, task)
}
