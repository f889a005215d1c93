// Package endpoint holds the gin handlers of the Doctor Profile API.
package endpoint

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/middleware"
	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// DoctorDirectory is implemented by *store.DoctorDirectory.
type DoctorDirectory interface {
	Create(ctx context.Context, name, specialty string, slots []model.SlotInput) (string, error)
	Get(ctx context.Context, id string) (model.DoctorView, error)
	List(ctx context.Context) ([]model.DoctorView, error)
}

// AppointmentLedger is implemented by *store.AppointmentLedger.
type AppointmentLedger interface {
	Create(ctx context.Context, doctorID, date, timeSlot string) (string, error)
	List(ctx context.Context) ([]model.Appointment, error)
	Replace(ctx context.Context, id, doctorID, date, timeSlot string) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CredentialStore is implemented by *store.CredentialStore.
type CredentialStore interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Lookup(ctx context.Context, email string) (model.User, error)
}

// TokenService is implemented by *util.TokenService.
type TokenService interface {
	Issue(subject string) (string, error)
	Verify(raw string) (string, error)
}

// Deps are the collaborators a Handler needs. Security and Log may be nil.
type Deps struct {
	AppName      string
	Doctors      DoctorDirectory
	Appointments AppointmentLedger
	Credentials  CredentialStore
	Tokens       TokenService
	Security     *util.SecurityLogger
	Log          *slog.Logger
	// RequireAuth guards doctor creation and appointment mutations with a bearer token.
	RequireAuth bool
	// AuthRateLimit is applied to signup and signin.
	AuthRateLimit middleware.RateLimitConfig
}

// Handler serves the HTTP API on top of the stores in Deps.
type Handler struct {
	Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.AppName == "" {
		deps.AppName = "Doctor Profile API"
	}
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}
	if deps.AuthRateLimit.Security == nil {
		deps.AuthRateLimit.Security = deps.Security
	}
	return &Handler{Deps: deps}
}

// RegisterRoutes mounts every route on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	requireBearer := middleware.RequireBearer(h.Tokens, h.Security)
	guard := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		if h.RequireAuth {
			return []gin.HandlerFunc{requireBearer, hf}
		}
		return []gin.HandlerFunc{hf}
	}

	r.GET("/", h.Root)

	v1 := r.Group("/api/v1")

	doctors := v1.Group("/doctors")
	doctors.POST("/", guard(h.CreateDoctor)...)
	doctors.GET("/", h.ListDoctors)
	doctors.GET("/:id", h.GetDoctor)

	auth := v1.Group("/auth")
	limiter := middleware.RateLimiter(h.AuthRateLimit)
	auth.POST("/signup", limiter, h.Signup)
	auth.POST("/signin", limiter, h.Signin)
	auth.GET("/me", requireBearer, h.Me)

	appointments := v1.Group("/appointments")
	appointments.GET("", h.ListAppointments)
	appointments.POST("", guard(h.CreateAppointment)...)
	appointments.PUT("/:id", guard(h.ReplaceAppointment)...)
	appointments.DELETE("/:id", guard(h.DeleteAppointment)...)
}

// Root godoc
// @Summary      Welcome message
// @Tags         Root
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Welcome to the %s!", h.AppName)})
}

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message" example:"Welcome to the Doctor Profile API!"`
}
