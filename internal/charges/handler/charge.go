package handler

import (
	"net/http"

	"tenniscourts/internal/charges/service"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ChargeHandler struct {
	service service.ChargeService
	log     *logger.Logger
}

func NewChargeHandler(service service.ChargeService, log *logger.Logger) *ChargeHandler {
	return &ChargeHandler{
		service: service,
		log:     log,
	}
}

func (h *ChargeHandler) CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentSessionRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		h.writeError(w, "CreateSession", err)
		return
	}

	session := h.service.CreateSession(r.Context(), &req)
	if err := httputil.WriteSuccess(w, model.PaymentSessionResult{OK: true, Session: session}); err != nil {
		h.log.Error("failed to write success response", "handler", "CreateSession", "operation", "WriteSuccess", "error", err)
	}
}

// Record answers 200 for declined charges too; ok=false carries the outcome.
func (h *ChargeHandler) Record(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Record", err)
		return
	}

	charge, err := h.service.Record(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Record", err)
		return
	}

	result := model.PaymentResult{OK: charge.Status == model.ChargeStatusPaid, Charge: charge}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Record", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ChargeHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	charges, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.ChargeList{OK: true, Charges: charges}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ChargeHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
