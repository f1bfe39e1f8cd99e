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

type SubmissionService interface {
	Deliver(ctx context.Context, taskID, studentID uint, content string, file *service.Upload) (service.DeliveryResult, error)
	Grade(ctx context.Context, submissionID, graderID uint, grade int, feedback string) (service.GradeResult, error)
	ListByTask(ctx context.Context, taskID uint) ([]domain.Submission, error)
}

type SubmissionHandler struct {
	svc   SubmissionService
	guard Guard
}

func NewSubmissionHandler(svc SubmissionService, guard Guard) *SubmissionHandler {
	return &SubmissionHandler{
		svc:   svc,
		guard: guard,
	}
}

// HandleDeliver godoc
// @Summary      Deliver a task
// @Description  A student delivers each task once and earns the delivery bonus.
// @Tags         submissions
// @Accept       mpfd,json
// @Produce      json
// @Param        taskID   path      int     true   "task id"
// @Param        content  formData  string  false  "answer text"
// @Param        file     formData  file    false  "attached file"
// @Success      201      {object}  service.DeliveryResult
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      413      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tasks/{taskID}/submissions [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleDeliver(ctx *gin.Context) {
	student, respErr := getPersonFromContext(ctx, h.guard, domain.RoleStudent)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	taskID, respErr := pathID(ctx, "taskID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DeliverRequest
	if respErr := bindBody(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	file, closeFile, respErr := formUpload(ctx, "file")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	defer closeFile()

	result, err := h.svc.Deliver(ctx.Request.Context(), taskID, student.ID, req.Content, file)
	if err != nil {
		err = fmt.Errorf("v1.HandleDeliver -> h.svc.Deliver -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// HandleListSubmissions godoc
// @Summary      List the submissions of a task
// @Tags         submissions
// @Produce      json
// @Param        taskID  path      int  true  "task id"
// @Success      200     {array}   domain.Submission
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /tasks/{taskID}/submissions [get]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleListSubmissions(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	taskID, respErr := pathID(ctx, "taskID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissions, err := h.svc.ListByTask(ctx.Request.Context(), taskID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListSubmissions -> h.svc.ListByTask -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, submissions)
}

// HandleGrade godoc
// @Summary      Grade a submission
// @Description  A positive grade is credited to the student as points.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        submissionID  path      int                   true  "submission id"
// @Param        request       body      request.GradeRequest  true  "request body"
// @Success      200           {object}  service.GradeResult
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /submissions/{submissionID}/grade [put]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleGrade(ctx *gin.Context) {
	grader, respErr := getPersonFromContext(ctx, h.guard, domain.RoleAdmin, domain.RoleTeacher)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissionID, respErr := pathID(ctx, "submissionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Grade(ctx.Request.Context(), submissionID, grader.ID, *req.Grade, req.Feedback)
	if err != nil {
		err = fmt.Errorf("v1.HandleGrade -> h.svc.Grade -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}
