package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/middleware"
	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/store"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

type SignupResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User created successfully"`
	UserID  string `json:"user_id" example:"665f1c2b9d3e4a0012345678"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

type MeResponse struct {
	Success bool       `json:"success" example:"true"`
	User    model.User `json:"user"`
}

// Signup godoc
// @Summary      Register a user
// @Description  Creates an account. Passwords need at least 8 characters.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Account credentials"
// @Success      200 {object} SignupResponse
// @Failure      400 {object} util.ErrorResponse "Email already registered or weak password"
// @Failure      422 {object} util.ErrorResponse "Invalid request payload"
// @Failure      429 {object} util.ErrorResponse "Too many requests"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	ci := clientInfoFrom(c)

	userID, err := h.Credentials.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Security.LogSignupFailure(req.Email, ci.IP, ci.Agent, ci.RequestID, signupFailureReason(err))
		h.respondError(c, resourceUser, err)
		return
	}

	h.Security.LogSignupSuccess(userID, req.Email, ci.IP, ci.Agent, ci.RequestID)
	util.CallSuccessOK(c, SignupResponse{
		Success: true,
		Message: "User created successfully",
		UserID:  userID,
	})
}

func signupFailureReason(err error) string {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return "duplicate email"
	case errors.Is(err, store.ErrWeakPassword):
		return "weak password"
	case errors.Is(err, store.ErrPasswordTooLong):
		return "password too long"
	default:
		return "store error"
	}
}

// Signin godoc
// @Summary      Sign in
// @Description  Exchanges email and password for a bearer access token.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SigninRequest true "Account credentials"
// @Success      200 {object} TokenResponse
// @Failure      401 {object} util.ErrorResponse "Invalid email or password"
// @Failure      422 {object} util.ErrorResponse "Invalid request payload"
// @Failure      429 {object} util.ErrorResponse "Too many requests"
// @Failure      500 {object} util.ErrorResponse "Server error"
// @Router       /api/v1/auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if !bindJSONOrRespond(c, &req) {
		return
	}
	ci := clientInfoFrom(c)

	subject, err := h.Credentials.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		reason := "store error"
		if errors.Is(err, store.ErrInvalidCredentials) {
			reason = "invalid credentials"
		}
		h.Security.LogLoginFailure(req.Email, ci.IP, ci.Agent, ci.RequestID, reason)
		h.respondError(c, resourceUser, err)
		return
	}

	token, err := h.Tokens.Issue(subject)
	if err != nil {
		h.Security.LogLoginFailure(req.Email, ci.IP, ci.Agent, ci.RequestID, "token generation failed")
		h.respondError(c, resourceUser, err)
		return
	}

	h.Security.LogLoginSuccess(subject, ci.IP, ci.Agent, ci.RequestID)
	util.CallSuccessOK(c, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the account behind the bearer token.
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MeResponse
// @Failure      401 {object} util.ErrorResponse "Invalid authorization header"
// @Failure      403 {object} util.ErrorResponse "Invalid or expired token"
// @Failure      404 {object} util.ErrorResponse "User not found"
// @Router       /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	subject, ok := middleware.GetSubject(c)
	if !ok {
		h.respondError(c, resourceUser, util.ErrInvalidToken)
		return
	}

	user, err := h.Credentials.Lookup(c.Request.Context(), subject)
	if err != nil {
		h.respondError(c, resourceUser, err)
		return
	}
	util.CallSuccessOK(c, MeResponse{Success: true, User: user})
}
