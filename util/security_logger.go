package util

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventSignupSuccess      SecurityEventType = "SIGNUP_SUCCESS"
	EventSignupFailure      SecurityEventType = "SIGNUP_FAILURE"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity SecurityEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	RequestID string
	Message   string
	Details   map[string]any
}

// SecurityLogger writes security events as single sanitized lines and, when
// an audit database is attached, persists them to the security_logs table.
type SecurityLogger struct {
	logger *log.Logger
	db     *gorm.DB
	geo    *GeoIP
}

// NewSecurityLogger writes to w. db and geo are optional.
func NewSecurityLogger(w io.Writer, db *gorm.DB, geo *GeoIP) *SecurityLogger {
	return &SecurityLogger{
		logger: log.New(w, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix),
		db:     db,
		geo:    geo,
	}
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent logs a security event
func (s *SecurityLogger) LogSecurityEvent(event SecurityEvent) {
	if s == nil {
		return
	}
	msg := fmt.Sprintf("Event=%s UserID=%s Email=%s IP=%s UserAgent=%s RequestID=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.UserID),
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.RequestID),
		sanitizeLogValue(event.Message),
	)
	if len(event.Details) > 0 {
		// details go to the audit table only
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}
	s.logger.Println(msg)

	if s.db == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	entry := model.SecurityLog{
		EventType: string(event.EventType),
		UserID:    sanitizeLogValue(event.UserID),
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		Location:  sanitizeLogValue(s.geo.Location(event.IP)),
		UserAgent: sanitizeLogValue(event.UserAgent),
		RequestID: sanitizeLogValue(event.RequestID),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}
	// best-effort write
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Printf("Failed to persist security event: %v", err)
	}
}

// LogLoginSuccess logs a successful signin
func (s *SecurityLogger) LogLoginSuccess(email, ip, userAgent, requestID string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Message:   "User signed in successfully",
	})
}

// LogLoginFailure logs a failed signin attempt
func (s *SecurityLogger) LogLoginFailure(email, ip, userAgent, requestID, reason string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

func (s *SecurityLogger) LogSignupSuccess(userID, email, ip, userAgent, requestID string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventSignupSuccess,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Message:   "User signed up successfully",
	})
}

func (s *SecurityLogger) LogSignupFailure(email, ip, userAgent, requestID, reason string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventSignupFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Message:   fmt.Sprintf("Signup failed: %s", reason),
	})
}

// LogUnauthorizedAccess logs rejected bearer credentials
func (s *SecurityLogger) LogUnauthorizedAccess(ip, requestID, resource, reason string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		IP:        ip,
		RequestID: requestID,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func (s *SecurityLogger) LogRateLimitExceeded(ip, requestID, endpoint string) {
	s.LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		RequestID: requestID,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}
