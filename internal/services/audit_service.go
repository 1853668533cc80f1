package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/utils"
)

// AuditService handles audit logging for security events
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service. When disabled, log calls
// are no-ops so callers never need to branch on configuration.
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     *uuid.UUID             // Can be nil for pre-authentication events
	Action     string                 // Action type (e.g., "login", "logout", "password_change")
	EntityType string                 // Type of entity affected (e.g., "user", "token")
	EntityID   *uuid.UUID             // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// LogLoginAttempt logs a login attempt, successful or not
func (s *AuditService) LogLoginAttempt(userID *uuid.UUID, email, ipAddress, userAgent string, success bool, failureReason string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": deviceInfo,
	}

	if !success && failureReason != "" {
		details["failure_reason"] = failureReason
	}

	action := "login_failed"
	if success {
		action = "login"
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogTokenRefresh logs a refresh token usage event
func (s *AuditService) LogTokenRefresh(userID uuid.UUID, ipAddress, userAgent string, success bool) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	action := "token_refresh_success"
	if !success {
		action = "token_refresh_failed"
	}

	details := map[string]interface{}{
		"success":     success,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     action,
		EntityType: "token",
		EntityID:   nil,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogPasswordChange logs a password change event
func (s *AuditService) LogPasswordChange(userID uuid.UUID, ipAddress, userAgent string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "password_change",
		EntityType: "user",
		EntityID:   &userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogBalanceChange logs a balance-affecting top-up operation against an agency
func (s *AuditService) LogBalanceChange(actorID, agencyID uuid.UUID, action string, amount, newBalance float64, ipAddress, userAgent string) error {
	details := map[string]interface{}{
		"amount":      amount,
		"new_balance": newBalance,
	}

	return s.logEvent(AuditEvent{
		UserID:     &actorID,
		Action:     action,
		EntityType: "topup",
		EntityID:   &agencyID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// logEvent is the internal method that writes to the audit_logs table
func (s *AuditService) logEvent(event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	query := `
		DELETE FROM audit_logs
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
