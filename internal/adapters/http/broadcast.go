package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/domain/sms"
)

type broadcastRequest struct {
	Channel    string   `json:"channel" validate:"required,oneof=sms email"`
	Subject    string   `json:"subject" validate:"max=200"`
	Body       string   `json:"body" validate:"required,max=5000"`
	MemberIDs  []string `json:"member_ids" validate:"max=1000"`
	Recipients []string `json:"recipients" validate:"max=1000,dive,max=254"`
}

type broadcastResponse struct {
	ID         string    `json:"id"`
	Channel    string    `json:"channel"`
	Recipients int       `json:"recipients"`
	Segments   int       `json:"segments"`
	Cost       int       `json:"cost"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sent_at"`
	Balance    int       `json:"balance"`
}

// handleSendBroadcast sends an SMS or email broadcast to raw recipients and members.
// POST: 201 with the logged message; 402 when SMS credit is short (balance untouched);
// 502 when the provider fails (message logged as Failed, credit refunded)
func (s *Server) handleSendBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := orchestrators.ExecuteSendBroadcast(r.Context(), orchestrators.SendBroadcastInput{
		Channel:    req.Channel,
		Subject:    req.Subject,
		Body:       req.Body,
		MemberIDs:  req.MemberIDs,
		Recipients: req.Recipients,
	}, s.app.Broadcast())

	switch {
	case errors.Is(err, sms.ErrInsufficientCredit):
		balance, _ := s.app.Credits.Balance(r.Context())
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":   err.Error(),
			"balance": balance,
		})
		return
	case errors.Is(err, sms.ErrEmptyBody), errors.Is(err, sms.ErrNoRecipients), errors.Is(err, sms.ErrInvalidChannel):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil && msg.ID != "":
		slog.Error("sms_event", "event", "broadcast_api_failed", "message_id", msg.ID, "error", err)
		writeError(w, http.StatusBadGateway, "broadcast delivery failed")
		return
	case err != nil:
		internalError(w, err)
		return
	}

	balance, err := s.app.Credits.Balance(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, broadcastResponse{
		ID:         msg.ID,
		Channel:    msg.Channel,
		Recipients: len(msg.Recipients),
		Segments:   msg.Segments,
		Cost:       msg.Cost,
		Status:     msg.Status,
		SentAt:     msg.SentAt,
		Balance:    balance,
	})
}

type topUpRequest struct {
	Units int `json:"units" validate:"gt=0,lte=1000000"`
}

// handleTopUpCredits adds prepaid SMS credits.
func (s *Server) handleTopUpCredits(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	balance, err := orchestrators.ExecuteTopUpCredits(r.Context(), req.Units, s.app.Broadcast())
	if errors.Is(err, sms.ErrNonPositiveTopUp) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": balance})
}
