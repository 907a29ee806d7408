package handlers

import (
	"net/http"

	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/request"
	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/response"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
	"github.com/gorilla/mux"
)

func (h *HTTPReferralHandler) HandleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateInvestmentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	inv, err := h.investments.CreateInvestment(r.Context(), &investmentdto.CreateInvestmentInput{
		OwnerAddress:    req.UserAddress,
		Amount:          req.InvestmentAmount,
		Type:            domain.InvestmentType(req.InvestmentType),
		PackageIndex:    req.PackageIndex,
		TransactionHash: req.TransactionHash,
		Status:          domain.InvestmentStatus(req.Status),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusCreated, "Investment created successfully", response.FromInvestment(inv))
}

func (h *HTTPReferralHandler) HandleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateInvestmentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	input := &investmentdto.UpdateInvestmentInput{
		ID:             mux.Vars(r)["id"],
		EarnedReturn:   req.RoiEarned,
		TotalWithdrawn: req.TotalWithdrawn,
		IsActive:       req.IsActive,
	}
	if req.Status != nil {
		status := domain.InvestmentStatus(*req.Status)
		input.Status = &status
	}

	inv, err := h.investments.UpdateInvestment(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "Investment updated successfully", response.FromInvestment(inv))
}

func (h *HTTPReferralHandler) HandleOwnerInvestments(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.investments.ListOwnerInvestments(r.Context(), &investmentdto.ListOwnerInvestmentsInput{
		OwnerAddress: mux.Vars(r)["address"],
		Type:         domain.InvestmentType(r.URL.Query().Get("type")),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", investmentList(out))
}

func (h *HTTPReferralHandler) HandleListInvestments(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.investments.ListInvestments(r.Context(), &investmentdto.ListInvestmentsInput{
		Status: domain.InvestmentStatus(r.URL.Query().Get("status")),
		Type:   domain.InvestmentType(r.URL.Query().Get("type")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", investmentList(out))
}

func (h *HTTPReferralHandler) HandleInvestmentStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.investments.AggregateForOwner(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	byType := make([]response.TypeBreakdownResponse, len(out.ByType))
	for i, b := range out.ByType {
		byType[i] = response.TypeBreakdownResponse{
			Type:        string(b.Type),
			Count:       b.Count,
			TotalAmount: b.TotalAmount,
		}
	}
	h.writeData(w, http.StatusOK, "", response.InvestmentStatsResponse{
		Stats:             response.FromTotals(out.Totals),
		ByType:            byType,
		RecentInvestments: response.FromInvestments(out.RecentInvestments),
	})
}

func pageQuery(r *http.Request) (int, int, error) {
	page, err := intQuery(r, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func investmentList(out *investmentdto.ListInvestmentsOutput) response.InvestmentListResponse {
	resp := response.InvestmentListResponse{
		Investments: response.FromInvestments(out.Investments),
		Pagination: response.Pagination{
			TotalPages:   out.Pagination.TotalPages,
			CurrentPage:  out.Pagination.CurrentPage,
			Total:        out.Pagination.TotalItems,
			ItemsPerPage: out.Pagination.ItemsPerPage,
		},
	}
	if out.Totals != nil {
		totals := response.FromTotals(*out.Totals)
		resp.Totals = &totals
	}
	return resp
}
