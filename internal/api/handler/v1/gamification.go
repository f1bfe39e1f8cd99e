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

type LeaderboardService interface {
	TopPerformers(ctx context.Context) ([]domain.LeaderboardEntry, error)
	ActivityHighScores(ctx context.Context, activityID uint) ([]domain.HighScore, error)
	Trophies(ctx context.Context) ([]domain.Trophy, error)
	MyTrophies(ctx context.Context, personID uint) ([]domain.EarnedTrophy, error)
	MyAchievements(ctx context.Context, personID uint) (domain.Achievements, error)
}

type ActivityService interface {
	List(ctx context.Context) ([]domain.Activity, error)
	Play(ctx context.Context, activityID, studentID uint, score int) (service.PlayResult, error)
}

type GamificationHandler struct {
	leaderboard LeaderboardService
	activities  ActivityService
	guard       Guard
}

func NewGamificationHandler(leaderboard LeaderboardService, activities ActivityService, guard Guard) *GamificationHandler {
	return &GamificationHandler{
		leaderboard: leaderboard,
		activities:  activities,
		guard:       guard,
	}
}

// HandleLeaderboard godoc
// @Summary      Top students by points
// @Tags         gamification
// @Produce      json
// @Success      200  {array}   domain.LeaderboardEntry
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /leaderboard [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleLeaderboard(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entries, err := h.leaderboard.TopPerformers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleLeaderboard -> h.leaderboard.TopPerformers -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleListTrophies godoc
// @Summary      Trophy catalog, cheapest first
// @Tags         gamification
// @Produce      json
// @Success      200  {array}   domain.Trophy
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /trophies [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleListTrophies(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	trophies, err := h.leaderboard.Trophies(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTrophies -> h.leaderboard.Trophies -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, trophies)
}

// HandleMyTrophies godoc
// @Summary      Trophies earned by the signed-in person
// @Tags         gamification
// @Produce      json
// @Success      200  {array}   domain.EarnedTrophy
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /trophies/mine [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleMyTrophies(ctx *gin.Context) {
	person, respErr := getPersonFromContext(ctx, h.guard)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	trophies, err := h.leaderboard.MyTrophies(ctx.Request.Context(), person.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleMyTrophies -> h.leaderboard.MyTrophies -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, trophies)
}

// HandleMyAchievements godoc
// @Summary      Balance, trophies and progress toward the next trophy
// @Tags         gamification
// @Produce      json
// @Success      200  {object}  domain.Achievements
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /achievements/mine [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleMyAchievements(ctx *gin.Context) {
	person, respErr := getPersonFromContext(ctx, h.guard)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	achievements, err := h.leaderboard.MyAchievements(ctx.Request.Context(), person.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleMyAchievements -> h.leaderboard.MyAchievements -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, achievements)
}

// HandleListActivities godoc
// @Summary      List game activities
// @Tags         gamification
// @Produce      json
// @Success      200  {array}   domain.Activity
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleListActivities(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activities, err := h.activities.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListActivities -> h.activities.List -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandlePlay godoc
// @Summary      Record a play of an activity
// @Tags         gamification
// @Accept       json
// @Produce      json
// @Param        activityID  path      int                  true  "activity id"
// @Param        request     body      request.PlayRequest  true  "request body"
// @Success      201         {object}  service.PlayResult
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /activities/{activityID}/play [post]
// @Security     BearerAuth
func (h *GamificationHandler) HandlePlay(ctx *gin.Context) {
	student, respErr := getPersonFromContext(ctx, h.guard, domain.RoleStudent)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activityID, respErr := pathID(ctx, "activityID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PlayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.activities.Play(ctx.Request.Context(), activityID, student.ID, *req.Score)
	if err != nil {
		err = fmt.Errorf("v1.HandlePlay -> h.activities.Play -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// HandleHighScores godoc
// @Summary      Best scores of an activity
// @Tags         gamification
// @Produce      json
// @Param        activityID  path      int  true  "activity id"
// @Success      200         {array}   domain.HighScore
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /activities/{activityID}/highscores [get]
// @Security     BearerAuth
func (h *GamificationHandler) HandleHighScores(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activityID, respErr := pathID(ctx, "activityID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	scores, err := h.leaderboard.ActivityHighScores(ctx.Request.Context(), activityID)
	if err != nil {
		err = fmt.Errorf("v1.HandleHighScores -> h.leaderboard.ActivityHighScores -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, scores)
}
