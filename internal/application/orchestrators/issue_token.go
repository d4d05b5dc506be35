package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/dateutil"
)

// TokenStore defines the QR token table operations.
type TokenStore interface {
	Insert(ctx context.Context, t attendance.QRToken) error
	GetByID(ctx context.Context, id string) (attendance.QRToken, error)
	Update(ctx context.Context, id string, mutate func(*attendance.QRToken) error) (attendance.QRToken, error)
}

// IssueTokenInput carries input for the orchestrator.
type IssueTokenInput struct {
	ServiceType string
	ServiceDate string        // defaults to today
	Validity    time.Duration // <= 0 uses deps.DefaultValidity
}

// IssueTokenDeps holds dependencies for IssueToken.
type IssueTokenDeps struct {
	TokenStore      TokenStore
	DefaultValidity time.Duration // <= 0 uses attendance.DefaultValidity
	Now             func() time.Time
	GenerateID      func() string
}

// ExecuteIssueToken creates a QR token valid from now for the validity window.
// PRE: ServiceType non-empty
// POST: Active token stored with ValidUntil = now + validity
func ExecuteIssueToken(ctx context.Context, input IssueTokenInput, deps IssueTokenDeps) (attendance.QRToken, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	genID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		genID = deps.GenerateID
	}

	validity := input.Validity
	if validity <= 0 {
		validity = deps.DefaultValidity
	}
	if validity <= 0 {
		validity = attendance.DefaultValidity
	}

	issuedAt := now()
	serviceDate := input.ServiceDate
	if serviceDate == "" {
		serviceDate = dateutil.Format(issuedAt)
	}

	t := attendance.QRToken{
		ID:          genID(),
		ServiceType: input.ServiceType,
		ServiceDate: serviceDate,
		ValidFrom:   issuedAt,
		ValidUntil:  issuedAt.Add(validity),
		Active:      true,
		CreatedAt:   issuedAt,
	}
	if err := t.Validate(); err != nil {
		return attendance.QRToken{}, err
	}
	if err := deps.TokenStore.Insert(ctx, t); err != nil {
		return attendance.QRToken{}, err
	}

	slog.Info("checkin_event", "event", "qr_token_issued", "token_id", t.ID, "service", t.ServiceType, "service_date", t.ServiceDate, "valid_until", t.ValidUntil)
	return t, nil
}

// DeactivateTokenDeps holds dependencies for DeactivateToken.
type DeactivateTokenDeps struct {
	TokenStore TokenStore
}

// ExecuteDeactivateToken stops a token from accepting further check-ins.
// PRE: tokenID refers to an existing token
// POST: token.Active == false
func ExecuteDeactivateToken(ctx context.Context, tokenID string, deps DeactivateTokenDeps) error {
	_, err := deps.TokenStore.Update(ctx, tokenID, func(t *attendance.QRToken) error {
		t.Active = false
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("checkin_event", "event", "qr_token_deactivated", "token_id", tokenID)
	return nil
}
