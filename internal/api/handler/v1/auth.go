package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edugamify/classroom-api/internal/api/handler/v1/request"
	"github.com/edugamify/classroom-api/internal/api/handler/v1/response"
	"github.com/edugamify/classroom-api/internal/api/middleware"
	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, account service.Account) (domain.Person, error)
	SignIn(ctx context.Context, login, password string) (string, domain.Person, error)
	SignOut(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, personID uint, input service.ProfileInput) (domain.Person, error)
}

type AuthHandler struct {
	conf       *config.APIConfig
	sessionTTL time.Duration
	svc        AuthService
	guard      Guard
}

func NewAuthHandler(conf *config.APIConfig, sessionTTL time.Duration, svc AuthService, guard Guard) *AuthHandler {
	return &AuthHandler{
		conf:       conf,
		sessionTTL: sessionTTL,
		svc:        svc,
		guard:      guard,
	}
}

// HandleSignup godoc
// @Summary      Signup a new student or teacher
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignupRequest  true  "request body"
// @Success      201      {object}  domain.Person
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	person, err := h.svc.Signup(ctx.Request.Context(), service.Account{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, person)
}

// HandleSignin godoc
// @Summary      Sign in with a username or an email
// @Description  Opens a session. The token is returned in the body and set as the session_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SigninRequest  true  "request body"
// @Success      200      {object}  response.SigninResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/signin [post]
func (h *AuthHandler) HandleSignin(ctx *gin.Context) {
	var req request.SigninRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, bodyErr(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	token, person, err := h.svc.SignIn(ctx.Request.Context(), req.Identifier(), req.Password)
	if err != nil {
		err = fmt.Errorf("v1.HandleSignin -> h.svc.SignIn -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.conf.SecureCookies, true)
	ctx.JSON(http.StatusOK, response.SigninResponse{
		Token:  token,
		Person: person,
	})
}

// HandleSignout godoc
// @Summary      Close the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.MessageResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/signout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleSignout(ctx *gin.Context) {
	if _, respErr := getPersonFromContext(ctx, h.guard); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.SignOut(ctx.Request.Context(), service.SessionToken(ctx.Request.Context())); err != nil {
		err = fmt.Errorf("v1.HandleSignout -> h.svc.SignOut -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.conf.SecureCookies, true)
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "signed out"})
}

// HandleWhoAmI godoc
// @Summary      Get the signed-in person
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Person
// @Failure      401  {object}  response.Err
// @Router       /auth/whoami [get]
// @Security     BearerAuth
func (h *AuthHandler) HandleWhoAmI(ctx *gin.Context) {
	person, respErr := getPersonFromContext(ctx, h.guard)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, person)
}

// HandleUpdateProfile godoc
// @Summary      Update the signed-in person's profile
// @Description  Accepts JSON, or a multipart form with an optional "avatar" file.
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        request  body      request.ProfileRequest  false  "request body"
// @Param        avatar   formData  file                    false  "avatar image"
// @Success      200      {object}  domain.Person
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      413      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /profile [put]
// @Security     BearerAuth
func (h *AuthHandler) HandleUpdateProfile(ctx *gin.Context) {
	person, respErr := getPersonFromContext(ctx, h.guard)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ProfileRequest
	if respErr := bindBody(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	avatar, closeAvatar, respErr := formUpload(ctx, "avatar")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	defer closeAvatar()

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), person.ID, service.ProfileInput{
		Email:    req.Email,
		Password: req.Password,
		Avatar:   avatar,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateProfile -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
