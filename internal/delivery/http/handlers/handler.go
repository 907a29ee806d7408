package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/delivery/http/dto/response"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/investment"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/participant"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/referral"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HTTPReferralHandler struct {
	participants   participant.ParticipantUsecase
	referrals      referral.ReferralUsecase
	investments    investment.InvestmentUsecase
	logger         *zap.Logger
	requestTimeout time.Duration
}

func NewHTTPReferralHandler(
	participants participant.ParticipantUsecase,
	referrals referral.ReferralUsecase,
	investments investment.InvestmentUsecase,
	logger *zap.Logger,
	requestTimeout time.Duration,
) *HTTPReferralHandler {
	return &HTTPReferralHandler{
		participants:   participants,
		referrals:      referrals,
		investments:    investments,
		logger:         logger.Named("http"),
		requestTimeout: requestTimeout,
	}
}

// NewRouter wires every route. gatherer backs /metrics.
func (h *HTTPReferralHandler) NewRouter(gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.withTimeout, h.withLogging)

	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/users/register", h.HandleRegister).Methods(http.MethodPost)
	r.HandleFunc("/users", h.HandleListParticipants).Methods(http.MethodGet)
	r.HandleFunc("/users/{address}", h.HandleGetParticipant).Methods(http.MethodGet)
	r.HandleFunc("/users/{address}/referrals", h.HandleParticipantReferrals).Methods(http.MethodGet)

	r.HandleFunc("/referrals/stats/{address}", h.HandleReferralStats).Methods(http.MethodGet)
	r.HandleFunc("/referrals/level-wise/{address}", h.HandleLevelWise).Methods(http.MethodGet)
	r.HandleFunc("/referrals/tree/{address}", h.HandleTree).Methods(http.MethodGet)
	r.HandleFunc("/referrals/top", h.HandleTopReferrers).Methods(http.MethodGet)
	r.HandleFunc("/referrals/commission", h.HandleCommission).Methods(http.MethodPut)

	r.HandleFunc("/investments/create", h.HandleCreateInvestment).Methods(http.MethodPost)
	r.HandleFunc("/investments", h.HandleListInvestments).Methods(http.MethodGet)
	r.HandleFunc("/investments/user/{address}", h.HandleOwnerInvestments).Methods(http.MethodGet)
	r.HandleFunc("/investments/stats/{address}", h.HandleInvestmentStats).Methods(http.MethodGet)
	r.HandleFunc("/investments/update/{id}", h.HandleUpdateInvestment).Methods(http.MethodPut)

	return r
}

func (h *HTTPReferralHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, response.Envelope{Success: true, Message: "ok"})
}

// withTimeout bounds each request. The propagation loop checks the context
// before every upline step.
func (h *HTTPReferralHandler) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.requestTimeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *HTTPReferralHandler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *HTTPReferralHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("failed to encode response",
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}

func (h *HTTPReferralHandler) writeData(w http.ResponseWriter, status int, message string, data any) {
	h.writeJSON(w, status, response.Envelope{Success: true, Message: message, Data: data})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindDuplicateParticipant, domain.KindUnknownSponsor:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindEdgeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

var kindMessages = map[domain.ErrorKind]string{
	domain.KindDuplicateParticipant: "User already registered",
	domain.KindUnknownSponsor:       "Referrer is not registered",
	domain.KindNotFound:             "Not found",
	domain.KindEdgeNotFound:         "Referral not found",
	domain.KindInternal:             "Internal server error",
}

// writeError maps err to a status and a structured body. Partial failures
// carry the point at which the operation stopped.
func (h *HTTPReferralHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	body := response.ErrorResponse{
		Success: false,
		Kind:    string(kind),
		Message: err.Error(),
	}
	if msg, ok := kindMessages[kind]; ok {
		body.Message = msg
	}

	var propErr *domain.PropagationError
	if errors.As(err, &propErr) {
		level := propErr.LastCompletedLevel
		body.LastCompletedLevel = &level
		body.Message = "Registration stopped before the upline was fully credited"
	}
	var writeErr *domain.PartialWriteError
	if errors.As(err, &writeErr) {
		body.Step = writeErr.Step
		body.Message = "Operation stopped after a partial write"
	}

	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
	h.writeJSON(w, status, body)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON")
	}
	return nil
}

// intQuery reads an optional integer query parameter; absent yields zero.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
