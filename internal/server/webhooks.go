package server

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/pkg/paystack"
)

const maxWebhookBody = 1 << 20

// handlePaystackWebhook upgrades a user to Pro on a verified
// charge.success event. The signature check authenticates the payload;
// the charge is re-verified against the API before the plan changes.
func (s *Server) handlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	// Without a secret there is nothing to authenticate payloads
	// against: an empty HMAC key would accept attacker-signed events,
	// so the endpoint is off entirely.
	if s.cfg.Paystack.Secret == "" {
		writeError(w, http.StatusServiceUnavailable, "payment webhooks are not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	r.Body.Close()

	if !paystack.VerifySignature(s.cfg.Paystack.Secret, body, r.Header.Get(paystack.SignatureHeader)) {
		zap.L().Warn("webhook signature rejected")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	ev, err := paystack.ParseEvent(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	// Other events (transfers, failed charges) are acknowledged so
	// Paystack stops redelivering them.
	if ev.Event != paystack.EventChargeSuccess {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	uid := ev.Data.Metadata.UserID
	if uid == "" {
		zap.L().Warn("charge.success without user_id metadata", zap.String("reference", ev.Data.Reference))
		writeError(w, http.StatusBadRequest, "missing user_id metadata")
		return
	}

	if s.payments != nil {
		tx, err := s.payments.VerifyTransaction(r.Context(), ev.Data.Reference)
		if err != nil {
			zap.L().Error("transaction verify failed", zap.String("reference", ev.Data.Reference), zap.Error(err))
			writeError(w, http.StatusBadGateway, "transaction verification failed")
			return
		}
		if tx.Status != "success" {
			writeError(w, http.StatusBadRequest, "transaction not successful")
			return
		}
	}

	if err := s.gate.SetPlan(r.Context(), uid, model.PlanPro); err != nil {
		zap.L().Error("plan upgrade failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "plan upgrade failed")
		return
	}

	zap.L().Info("plan upgraded",
		zap.String("user", uid),
		zap.String("reference", ev.Data.Reference),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "upgraded"})
}
