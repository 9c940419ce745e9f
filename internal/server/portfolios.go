package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/portfolix/portfolix/internal/model"
	"github.com/portfolix/portfolix/internal/store"
)

type createPortfolioRequest struct {
	Name             string                `json:"name"`
	RiskScore        float64               `json:"risk_score"`
	ExperienceLevel  model.ExperienceLevel `json:"experience_level"`
	Timeline         string                `json:"timeline"`
	InvestmentAmount float64               `json:"investment_amount"`
	Assets           []model.Asset         `json:"assets"`
	Rationale        string                `json:"rationale"`
}

// handleCreatePortfolio saves a portfolio. Free accounts are capped;
// an optional captcha challenge guards the write when configured.
func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	if s.captcha != nil {
		token := r.Header.Get("X-Captcha-Token")
		if err := s.captcha.Verify(r.Context(), token, r.RemoteAddr); err != nil {
			zap.L().Warn("captcha rejected", zap.String("user", uid), zap.Error(err))
			writeError(w, http.StatusForbidden, "captcha verification failed")
			return
		}
	}

	var req createPortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || len(req.Assets) == 0 {
		writeError(w, http.StatusBadRequest, "name and assets are required")
		return
	}

	decision, err := s.gate.CanCreatePortfolio(r.Context(), uid)
	if err != nil {
		zap.L().Error("portfolio quota check failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "quota check failed")
		return
	}
	if !decision.Allowed {
		writeUpgradeRequired(w, decision.Reason)
		return
	}

	saved, err := s.store.SavePortfolio(r.Context(), &model.Portfolio{
		UserID:           uid,
		Name:             req.Name,
		RiskScore:        req.RiskScore,
		ExperienceLevel:  req.ExperienceLevel,
		Timeline:         req.Timeline,
		InvestmentAmount: req.InvestmentAmount,
		Assets:           req.Assets,
		Rationale:        req.Rationale,
	})
	if err != nil {
		zap.L().Error("save portfolio failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save portfolio")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	portfolios, err := s.store.ListPortfolios(r.Context(), uid)
	if err != nil {
		zap.L().Error("list portfolios failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list portfolios")
		return
	}
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}

	writeJSON(w, http.StatusOK, portfolios)
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	p, err := s.store.GetPortfolio(r.Context(), uid, id)
	if err != nil {
		zap.L().Error("get portfolio failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load portfolio")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "portfolio not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	if err := s.store.DeletePortfolio(r.Context(), uid, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		zap.L().Error("delete portfolio failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete portfolio")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateAmountRequest struct {
	InvestmentAmount float64 `json:"investment_amount"`
}

// handleUpdateAmount changes a saved portfolio's investment amount.
// That is the only mutable field after creation.
func (s *Server) handleUpdateAmount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	var req updateAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InvestmentAmount < 0 {
		writeError(w, http.StatusBadRequest, "investment_amount must be non-negative")
		return
	}

	if err := s.store.UpdateInvestmentAmount(r.Context(), uid, id, req.InvestmentAmount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		zap.L().Error("update investment amount failed", zap.String("user", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not update portfolio")
		return
	}

	p, err := s.store.GetPortfolio(r.Context(), uid, id)
	if err != nil || p == nil {
		writeError(w, http.StatusInternalServerError, "could not load portfolio")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
