package util

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
)

// setupTestLogger returns a SecurityLogger writing to a buffer, without audit DB.
func setupTestLogger() (*SecurityLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewSecurityLogger(buf, nil, nil), buf
}

// assertLogContains checks if the log output contains all expected substrings
func assertLogContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, expectedSubstr := range expected {
		if !strings.Contains(output, expectedSubstr) {
			t.Errorf("Log output missing expected substring %q\nGot: %s", expectedSubstr, output)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes newlines",
			input:    "hello\nworld",
			expected: "hello world",
		},
		{
			name:     "removes carriage returns",
			input:    "hello\rworld",
			expected: "hello world",
		},
		{
			name:     "removes tabs",
			input:    "hello\tworld",
			expected: "hello world",
		},
		{
			name:     "truncates long values",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200) + "...",
		},
		{
			name:     "handles normal strings",
			input:    "normal string",
			expected: "normal string",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "combines multiple issues",
			input:    "line1\nline2\rline3\ttab",
			expected: "line1 line2 line3 tab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLogValue(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeLogValue() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestLogSecurityEventBasic(t *testing.T) {
	sec, buf := setupTestLogger()

	sec.LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		UserID:    "123",
		Email:     "user@example.com",
		IP:        "192.168.1.1",
		UserAgent: "Mozilla/5.0",
		RequestID: "req-9",
		Message:   "Login successful",
	})

	assertLogContains(t, buf.String(), []string{
		"[SECURITY] ",
		"Event=LOGIN_SUCCESS",
		"UserID=123",
		"Email=user@example.com",
		"IP=192.168.1.1",
		"UserAgent=Mozilla/5.0",
		"RequestID=req-9",
		"Message=Login successful",
	})
}

func TestLogSecurityEventSanitization(t *testing.T) {
	sec, buf := setupTestLogger()

	sec.LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "user@example.com",
		IP:        "192.168.1.2",
		Message:   "Failed\nlogin\rattempt",
	})

	assertLogContains(t, buf.String(), []string{
		"Event=LOGIN_FAILURE",
		"Message=Failed login attempt",
	})
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLogSecurityEventWithDetails(t *testing.T) {
	sec, buf := setupTestLogger()

	sec.LogSecurityEvent(SecurityEvent{
		EventType: EventSuspiciousActivity,
		IP:        "10.0.0.1",
		Message:   "Suspicious activity detected",
		Details: map[string]any{
			"reason": "multiple IPs",
			"count":  5,
		},
	})

	assertLogContains(t, buf.String(), []string{
		"Event=SUSPICIOUS_ACTIVITY",
		"DetailsCount=2",
	})
}

func TestLogSecurityEvent_NilLogger(t *testing.T) {
	var sec *SecurityLogger
	assert.NotPanics(t, func() {
		sec.LogSecurityEvent(SecurityEvent{EventType: EventEndpointCall})
		sec.LogLoginSuccess("a@b.com", "1.2.3.4", "ua", "req")
	})
}

func TestEventHelpers(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(*SecurityLogger)
		contains []string
	}{
		{
			name:     "LogLoginSuccess",
			logFunc:  func(s *SecurityLogger) { s.LogLoginSuccess("user@example.com", "192.168.1.1", "Mozilla/5.0", "r1") },
			contains: []string{"Event=LOGIN_SUCCESS", "Email=user@example.com", "Message=User signed in successfully"},
		},
		{
			name:     "LogLoginFailure",
			logFunc:  func(s *SecurityLogger) { s.LogLoginFailure("user@example.com", "192.168.1.1", "Mozilla/5.0", "r2", "invalid credentials") },
			contains: []string{"Event=LOGIN_FAILURE", "Message=Login failed: invalid credentials"},
		},
		{
			name:     "LogSignupSuccess",
			logFunc:  func(s *SecurityLogger) { s.LogSignupSuccess("665f1c2b9d3e4a0012345678", "new@example.com", "10.0.0.1", "curl", "r3") },
			contains: []string{"Event=SIGNUP_SUCCESS", "UserID=665f1c2b9d3e4a0012345678", "Email=new@example.com"},
		},
		{
			name:     "LogSignupFailure",
			logFunc:  func(s *SecurityLogger) { s.LogSignupFailure("new@example.com", "10.0.0.1", "curl", "r4", "duplicate email") },
			contains: []string{"Event=SIGNUP_FAILURE", "Message=Signup failed: duplicate email"},
		},
		{
			name:     "LogUnauthorizedAccess",
			logFunc:  func(s *SecurityLogger) { s.LogUnauthorizedAccess("10.0.0.2", "r5", "/api/v1/auth/me", "invalid or expired token") },
			contains: []string{"Event=UNAUTHORIZED_ACCESS", "Message=Unauthorized access to /api/v1/auth/me: invalid or expired token"},
		},
		{
			name:     "LogRateLimitExceeded",
			logFunc:  func(s *SecurityLogger) { s.LogRateLimitExceeded("10.0.0.3", "r6", "/api/v1/auth/signin") },
			contains: []string{"Event=RATE_LIMIT_EXCEEDED", "Message=Rate limit exceeded for endpoint: /api/v1/auth/signin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, buf := setupTestLogger()
			tt.logFunc(sec)
			assertLogContains(t, buf.String(), tt.contains)
		})
	}
}

func TestLogSecurityEvent_PersistsToAuditDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SecurityLog{}))

	var buf bytes.Buffer
	sec := NewSecurityLogger(&buf, db, nil)
	sec.LogSecurityEvent(SecurityEvent{
		EventType: EventSignupSuccess,
		UserID:    "abc",
		Email:     "new@example.com",
		IP:        "127.0.0.1",
		RequestID: "req-1",
		Message:   "User signed\nup",
		Details:   map[string]any{"source": "test"},
	})

	var logs []model.SecurityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "SIGNUP_SUCCESS", logs[0].EventType)
	assert.Equal(t, "new@example.com", logs[0].Email)
	assert.Equal(t, "req-1", logs[0].RequestID)
	assert.Equal(t, "User signed up", logs[0].Message)
	assert.Empty(t, logs[0].Location)
	assert.JSONEq(t, `{"source":"test"}`, string(logs[0].Details))
}
