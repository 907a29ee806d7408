package handlers

import (
	"net/http"

	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/request"
	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/response"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
	"github.com/gorilla/mux"
)

func (h *HTTPReferralHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.participants.RegisterParticipant(r.Context(), &participantdto.RegisterInput{
		Address:        req.Address,
		SponsorAddress: req.ReferrerAddress,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusCreated, "User registered successfully", response.FromParticipant(out.Participant))
}

func (h *HTTPReferralHandler) HandleGetParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := h.participants.GetParticipant(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.FromParticipant(p))
}

func (h *HTTPReferralHandler) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.participants.ListParticipants(r.Context(), &participantdto.ListParticipantsInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.ParticipantListResponse{
		Users:       response.FromParticipants(out.Participants),
		TotalPages:  out.Pagination.TotalPages,
		CurrentPage: out.Pagination.CurrentPage,
		Total:       out.Pagination.TotalItems,
	})
}

func (h *HTTPReferralHandler) HandleParticipantReferrals(w http.ResponseWriter, r *http.Request) {
	level, err := intQuery(r, "level")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.participants.GetParticipantReferrals(r.Context(), &participantdto.GetReferralsInput{
		Address: mux.Vars(r)["address"],
		Level:   level,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, "", response.ParticipantReferralsResponse{
		TotalReferrals:  out.TotalReferrals,
		Level1Referrals: out.Level1Referrals,
		Level2Referrals: out.Level2Referrals,
		Referrals:       response.FromEdges(out.Referrals),
	})
}
