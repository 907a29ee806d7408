package handlers

import (
	"net/http"

	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/request"
	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/response"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
	"github.com/gorilla/mux"
)

func (h *HTTPReferralHandler) HandleReferralStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.referrals.GetReferralStats(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.ReferralStatsResponse{
		Address:          out.Address,
		UserExists:       out.UserExists,
		RegistrationDate: out.RegistrationDate,
		TotalReferrals:   out.TotalReferrals,
		TotalInvestment:  out.TotalInvestment,
		TotalEarnings:    out.TotalEarnings,
		TotalCommission:  out.TotalCommission,
		Levels:           levelResponses(out.Levels[:]),
	})
}

func (h *HTTPReferralHandler) HandleLevelWise(w http.ResponseWriter, r *http.Request) {
	level, err := intQuery(r, "level")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.referrals.GetLevelWise(r.Context(), &referraldto.LevelWiseInput{
		Address: mux.Vars(r)["address"],
		Level:   level,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.LevelWiseResponse{
		Address:     out.Address,
		UserExists:  out.UserExists,
		TotalLevels: domain.MaxReferralLevels,
		Levels:      levelResponses(out.Levels),
	})
}

func (h *HTTPReferralHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	depth, err := intQuery(r, "maxDepth")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	tree, err := h.referrals.BuildTree(r.Context(), &referraldto.BuildTreeInput{
		Address:  mux.Vars(r)["address"],
		MaxDepth: depth,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.FromTree(tree))
}

func (h *HTTPReferralHandler) HandleTopReferrers(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	top, err := h.referrals.TopReferrers(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.FromParticipants(top))
}

func (h *HTTPReferralHandler) HandleCommission(w http.ResponseWriter, r *http.Request) {
	var req request.CommissionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	edge, err := h.referrals.ApplyCommission(r.Context(), &referraldto.CommissionInput{
		ReferrerAddress: req.ReferrerAddress,
		ReferredAddress: req.ReferredAddress,
		Amount:          req.Commission,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "Commission updated successfully", response.FromEdge(edge))
}

func levelResponses(levels []referraldto.LevelOutput) []response.LevelResponse {
	out := make([]response.LevelResponse, len(levels))
	for i, l := range levels {
		out[i] = response.LevelResponse{
			Level:     l.Level,
			Count:     l.Count,
			Referrals: response.FromEdges(l.Referrals),
		}
	}
	return out
}
