package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/partnership"
)

// partnerNotFound is the body clients already match on.
const partnerNotFound = "Partner not found"

// isPartnerInputError reports domain validation failures that map to 400.
func isPartnerInputError(err error) bool {
	return errors.Is(err, partnership.ErrEmptyName) ||
		errors.Is(err, partnership.ErrInvalidEmail) ||
		errors.Is(err, partnership.ErrNonPositive) ||
		errors.Is(err, partnership.ErrContributionDate) ||
		errors.Is(err, partnership.ErrEmptyPartnerID)
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.app.Partners.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if partners == nil {
		partners = []partnership.Partner{}
	}
	writeJSON(w, http.StatusOK, partners)
}

type createPartnerRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	PartnershipDate string `json:"partnership_date" validate:"omitempty,datetime=2006-01-02"`
	Tier            string `json:"tier" validate:"omitempty,oneof='Platinum Partners' 'Gold Partners' 'Silver Partners' 'Bronze Partners'"`
}

// handleCreatePartner adds a partner.
// POST: 200 with the stored partner (uuid id, zero total, Bronze tier when none given)
func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := orchestrators.ExecuteCreatePartner(r.Context(), orchestrators.CreatePartnerInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PartnershipDate: req.PartnershipDate,
		Tier:            req.Tier,
	}, s.app.Partner())
	if isPartnerInputError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updatePartnerRequest is a partial profile edit. Absent keys leave the field alone.
// Keys outside the profile, such as id, created_at and the running totals, are ignored,
// so a partner object read from GET can be sent back as is.
type updatePartnerRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	PartnershipDate *string `json:"partnership_date"`
	Tier            *string `json:"tier"`
}

// partnerFields is the validated form of an update; empty means absent or cleared.
type partnerFields struct {
	Name            string `json:"name" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	PartnershipDate string `json:"partnership_date" validate:"omitempty,datetime=2006-01-02"`
	Tier            string `json:"tier" validate:"omitempty,oneof='Platinum Partners' 'Gold Partners' 'Silver Partners' 'Bronze Partners'"`
}

func (u updatePartnerRequest) fields() partnerFields {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return partnerFields{
		Name:            deref(u.Name),
		Email:           deref(u.Email),
		Phone:           deref(u.Phone),
		PartnershipDate: deref(u.PartnershipDate),
		Tier:            deref(u.Tier),
	}
}

// handleUpdatePartner applies a partial profile edit. Totals cannot be set here.
func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	var req updatePartnerRequest
	if !readJSON(w, r, &req, false) || !validRequest(w, req.fields()) {
		return
	}
	p, err := orchestrators.ExecuteUpdatePartner(r.Context(), orchestrators.UpdatePartnerInput{
		ID: r.PathValue("id"),
		Profile: partnership.Profile{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			PartnershipDate: req.PartnershipDate,
			Tier:            req.Tier,
		},
	}, s.app.Partner())
	switch {
	case errors.Is(err, partnership.ErrPartnerNotFound):
		writeError(w, http.StatusNotFound, partnerNotFound)
	case isPartnerInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

// handleDeletePartner is idempotent: deleting an unknown id still reports success.
func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeletePartner(r.Context(), r.PathValue("id"), s.app.Partner()); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Partner deleted successfully"})
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" validate:"omitempty,oneof='Monthly Pledge' 'One-off' 'Project Support' Missions"`
	Notes  string          `json:"notes" validate:"max=500"`
	Date   string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type contributionResponse struct {
	ID        string              `json:"id"`
	PartnerID string              `json:"partner_id"`
	Date      string              `json:"date"`
	Amount    decimal.Decimal     `json:"amount"`
	Type      string              `json:"type"`
	Notes     string              `json:"notes,omitempty"`
	Partner   partnership.Partner `json:"partner"`
}

// handleAddContribution records a gift and returns it with the partner's new running total.
func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, p, err := orchestrators.ExecuteAddContribution(r.Context(), orchestrators.AddContributionInput{
		PartnerID: r.PathValue("id"),
		Amount:    req.Amount,
		Type:      req.Type,
		Notes:     req.Notes,
		Date:      req.Date,
	}, s.app.Partner())
	switch {
	case errors.Is(err, partnership.ErrPartnerNotFound):
		writeError(w, http.StatusNotFound, partnerNotFound)
	case isPartnerInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusCreated, contributionResponse{
			ID: c.ID, PartnerID: c.PartnerID, Date: c.Date, Amount: c.Amount, Type: c.Type, Notes: c.Notes, Partner: p,
		})
	}
}

func (s *Server) handlePartnershipSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := projections.QueryPartnershipSummary(r.Context(), s.app.Clock(), s.app.Partnership())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type issueTokenRequest struct {
	ServiceType     string `json:"service_type" validate:"required,max=60"`
	ServiceDate     string `json:"service_date" validate:"omitempty,datetime=2006-01-02"`
	ValidityMinutes int    `json:"validity_minutes" validate:"gte=0,lte=1440"`
}

type tokenResponse struct {
	ID          string    `json:"id"`
	ServiceType string    `json:"service_type"`
	ServiceDate string    `json:"service_date"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidUntil  time.Time `json:"valid_until"`
	Active      bool      `json:"active"`
}

// handleIssueToken opens a QR check-in window for a service.
// POST: 201 with the token; validity_minutes of 0 uses the configured default
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := orchestrators.ExecuteIssueToken(r.Context(), orchestrators.IssueTokenInput{
		ServiceType: req.ServiceType,
		ServiceDate: req.ServiceDate,
		Validity:    time.Duration(req.ValidityMinutes) * time.Minute,
	}, s.app.IssueToken())
	if errors.Is(err, attendance.ErrEmptyService) || errors.Is(err, attendance.ErrInvalidDate) || errors.Is(err, attendance.ErrInvalidValidity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{
		ID: t.ID, ServiceType: t.ServiceType, ServiceDate: t.ServiceDate,
		ValidFrom: t.ValidFrom, ValidUntil: t.ValidUntil, Active: t.Active,
	})
}

type checkInRequest struct {
	Token    string `json:"token"`
	MemberID string `json:"member_id"`
}

type checkInResponse struct {
	Success  bool   `json:"success"`
	Result   string `json:"result"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}

// handleCheckIn scans a member in. Every business outcome is a 200 with success=false and the
// reason, so kiosk clients only branch on one field.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, rec, err := orchestrators.ExecuteQRCheckIn(r.Context(), orchestrators.QRCheckInInput{
		TokenID:  req.Token,
		MemberID: req.MemberID,
	}, s.app.QRCheckIn())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkInResponse{
		Success:  result == attendance.CheckInSuccess,
		Result:   result.String(),
		Message:  result.Message(),
		RecordID: rec.ID,
	})
}

func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	d, err := projections.QueryDashboard(r.Context(), s.app.Clock(), s.app.Dashboard())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handlePerf reports request and query timings. ?minutes= sets the window (default 15).
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeError(w, http.StatusNotFound, "performance collection is disabled")
		return
	}
	minutes := 15
	if v := r.URL.Query().Get("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "minutes must be a positive integer")
			return
		}
		minutes = n
	}
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.collector.Snapshot(since, 10))
}

// handleHealth reports whether the partner database answers. The JSON backend always does.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Ping(r.Context()); err != nil {
		slog.Error("health_event", "event", "ping_failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
