package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/engine"
	"github.com/portfolix/portfolix/internal/model"
)

type recommendationRequest struct {
	Answers          model.AnswerSet `json:"answers"`
	InvestmentAmount float64         `json:"investment_amount"`
}

// handleRecommendation runs one questionnaire through the allocation
// engine. Generation is metered for free accounts; a closed gate
// returns upgrade_required without computing anything.
func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var req recommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := s.gate.CanGenerate(r.Context(), uid)
	if err != nil {
		zap.L().Error("recommendation quota check failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "quota check failed")
		return
	}
	if !decision.Allowed {
		writeUpgradeRequired(w, decision.Reason)
		return
	}

	rec, err := engine.ComputeRecommendation(req.Answers, req.InvestmentAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if decision.Plan == model.PlanFree {
		if err := s.gate.RecordGeneration(r.Context(), uid); err != nil {
			zap.L().Error("record generation failed", zap.String("user", uid), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "metering failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleAlternatives returns the shifted variants for an archetype.
// Pure lookup, not metered.
func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	archetype := model.Archetype(r.URL.Query().Get("archetype"))
	if archetype == "" {
		writeError(w, http.StatusBadRequest, "archetype query parameter is required")
		return
	}

	conservative, err := engine.Alternative(archetype, engine.AlternativeConservative)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	aggressive, err := engine.Alternative(archetype, engine.AlternativeAggressive)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Asset{
		string(engine.AlternativeConservative): conservative,
		string(engine.AlternativeAggressive):   aggressive,
	})
}
