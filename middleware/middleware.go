package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// SubjectKey is the gin context key holding the verified token subject (the user's email).
const SubjectKey = "subject"

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Content-Type", "application/json")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// GetSubject returns the subject stored by RequireBearer.
func GetSubject(c *gin.Context) (string, bool) {
	v, ok := c.Get(SubjectKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// TokenVerifier is satisfied by *util.TokenService.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer" token.
// A missing or malformed header answers 401, a token that fails verification 403.
func RequireBearer(tokens TokenVerifier, sec *util.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := util.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			sec.LogUnauthorizedAccess(c.ClientIP(), GetRequestID(c), c.Request.URL.Path, "malformed authorization header")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid authorization header",
				Err: err,
			})
			return
		}

		subject, err := tokens.Verify(raw)
		if err != nil {
			if !errors.Is(err, util.ErrInvalidToken) {
				err = errors.Join(util.ErrInvalidToken, err)
			}
			sec.LogUnauthorizedAccess(c.ClientIP(), GetRequestID(c), c.Request.URL.Path, "invalid or expired token")
			util.CallForbidden(c, util.APIErrorParams{
				Msg: "Invalid or expired token",
				Err: err,
			})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}
