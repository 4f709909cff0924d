package handler

import (
	"net/http"

	"tenniscourts/internal/users/service"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg model.UserRegistration
	if err := httputil.DecodeJSON(r, &reg, false); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	user, err := h.service.Register(r.Context(), &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := httputil.DecodeJSON(r, &creds, false); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	user, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
