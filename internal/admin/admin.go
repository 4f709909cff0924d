// Package admin authenticates the single configured administrator and hands
// out the static bearer token the admin routes require.
package admin

import (
	"crypto/subtle"
	"net/http"

	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Authenticator struct {
	cfg *config.Config
}

func NewAuthenticator(cfg *config.Config) *Authenticator {
	return &Authenticator{cfg: cfg}
}

func (a *Authenticator) Login(creds *model.Credentials) (*model.AdminSession, error) {
	emailOK := a.cfg.IsAdminEmail(creds.Email)
	passwordOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		a.cfg.Log.Warn("Admin login rejected")
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	return &model.AdminSession{AccessToken: a.cfg.AdminToken, Email: a.cfg.AdminEmail}, nil
}

type Handler struct {
	auth *Authenticator
	cfg  *config.Config
}

func NewHandler(auth *Authenticator, cfg *config.Config) *Handler {
	return &Handler{auth: auth, cfg: cfg}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := httputil.DecodeJSON(r, &creds, false); err != nil {
		h.writeError(w, err)
		return
	}

	session, err := h.auth.Login(&creds)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "AdminLogin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", "AdminLogin", "operation", "WriteError", "error", writeErr)
	}
}
