package endpoint

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/middleware"
	"github.com/BMDarkLight/Simple-Doctor-API/store"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// resource names the entity in InvalidId / NotFound messages.
type resource string

const (
	resourceDoctor      resource = "doctor"
	resourceAppointment resource = "appointment"
	resourceUser        resource = "user"
)

func (r resource) title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// respondError maps a store or token error onto its status and detail.
// Anything unrecognised is logged and answered with a generic 500.
func (h *Handler) respondError(c *gin.Context, res resource, err error) {
	params := util.APIErrorParams{Err: err}
	switch {
	case errors.Is(err, store.ErrInvalidID):
		params.Msg = fmt.Sprintf("Invalid %s ID format", res)
		util.CallUserError(c, params)
	case errors.Is(err, store.ErrNotFound):
		params.Msg = fmt.Sprintf("%s not found", res.title())
		util.CallErrorNotFound(c, params)
	case errors.Is(err, store.ErrDuplicateEmail):
		params.Msg = "Email already registered"
		util.CallUserError(c, params)
	case errors.Is(err, store.ErrWeakPassword):
		params.Msg = fmt.Sprintf("Password must be at least %d characters long", store.MinPasswordLength)
		util.CallUserError(c, params)
	case errors.Is(err, store.ErrPasswordTooLong):
		params.Msg = fmt.Sprintf("Password must be at most %d bytes", util.MaxPasswordBytes)
		util.CallUserError(c, params)
	case errors.Is(err, store.ErrInvalidDate):
		params.Msg = "Invalid date format, expected YYYY-MM-DD"
		util.CallUserError(c, params)
	case errors.Is(err, store.ErrInvalidCredentials):
		params.Msg = "Invalid email or password"
		util.CallUserNotAuthorized(c, params)
	case errors.Is(err, util.ErrMalformedHeader):
		params.Msg = "Invalid authorization header"
		util.CallUserNotAuthorized(c, params)
	case errors.Is(err, util.ErrInvalidToken):
		params.Msg = "Invalid or expired token"
		util.CallForbidden(c, params)
	default:
		h.Log.Error("request failed",
			slogRequest(c),
			"resource", string(res),
			"error", err,
		)
		params.Msg = "Internal server error"
		util.CallServerError(c, params)
	}
}

// bindJSONOrRespond answers 422 when the body does not decode or validate.
func bindJSONOrRespond(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUnprocessable(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid request payload: %v", err),
			Err: err,
		})
		return false
	}
	return true
}

type clientInfo struct {
	IP        string
	Agent     string
	RequestID string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{
		IP:        c.ClientIP(),
		Agent:     c.Request.UserAgent(),
		RequestID: middleware.GetRequestID(c),
	}
}

func slogRequest(c *gin.Context) slog.Attr {
	return slog.Group("request",
		slog.String("id", middleware.GetRequestID(c)),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)
}
