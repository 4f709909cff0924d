package handler

import (
	"net/http"

	"tenniscourts/internal/bookings/service"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type cancelResponse struct {
	Detail string `json:"detail"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, err := h.service.Availability(r.Context(), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, day); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListByEmail(r.Context(), ps.ByName("email"))
	if err != nil {
		h.writeError(w, "ListByEmail", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByEmail", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListByDate(r.Context(), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "ListByDate", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListActive(r.Context())
	if err != nil {
		h.writeError(w, "ListActive", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListActive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, cancelResponse{Detail: "Booking cancelled"}); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
