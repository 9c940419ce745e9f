package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/model"
)

// handleProSuggestions proxies one AI suggestion request for a Pro
// account. The risk_score branch never fails; the other branches
// return an error envelope and leave no partial state.
func (s *Server) handleProSuggestions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	plan, err := s.gate.Plan(r.Context(), uid)
	if err != nil {
		zap.L().Error("plan lookup failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "plan lookup failed")
		return
	}
	if plan != model.PlanPro {
		writeUpgradeRequired(w, "pro plan required for AI suggestions")
		return
	}
	if s.suggest == nil {
		writeError(w, http.StatusServiceUnavailable, "suggestions are not configured")
		return
	}

	var req model.SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Portfolio) == 0 {
		writeError(w, http.StatusBadRequest, "portfolio is required")
		return
	}

	data := &model.SuggestionData{}
	switch req.Type {
	case model.SuggestionImprovement:
		suggestions, err := s.suggest.Improvements(r.Context(), req)
		if err != nil {
			zap.L().Error("improvement suggestions failed", zap.String("user", uid), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, model.SuggestionResponse{
				Success: false,
				Error:   "suggestion service unavailable",
			})
			return
		}
		data.Suggestions = suggestions

	case model.SuggestionRebalancing:
		moves, err := s.suggest.Rebalancing(r.Context(), req)
		if err != nil {
			zap.L().Error("rebalancing suggestions failed", zap.String("user", uid), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, model.SuggestionResponse{
				Success: false,
				Error:   "suggestion service unavailable",
			})
			return
		}
		data.Rebalancing = moves

	case model.SuggestionRiskScore:
		data.RiskScore = s.suggest.RiskScore(r.Context(), req)

	case "":
		// No type requested: full enrichment, each branch degrading
		// on its own.
		data = s.suggest.Enrich(r.Context(), req)

	default:
		writeError(w, http.StatusBadRequest, "unknown suggestion type")
		return
	}

	writeJSON(w, http.StatusOK, model.SuggestionResponse{Success: true, Data: data})
}

// handleProAlerts lists stored rebalancing alerts.
func (s *Server) handleProAlerts(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	plan, err := s.gate.Plan(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "plan lookup failed")
		return
	}
	if plan != model.PlanPro {
		writeUpgradeRequired(w, "pro plan required for rebalancing alerts")
		return
	}

	alerts, err := s.store.ListAlerts(r.Context(), uid)
	if err != nil {
		zap.L().Error("list alerts failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list alerts")
		return
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}
