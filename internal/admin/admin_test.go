package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Log = logger.NewNop()
	cfg.AdminEmail = "admin@tenniscourt.com"
	cfg.AdminPassword = "s3cret"
	cfg.AdminToken = "token-123"
	return cfg
}

func TestLogin(t *testing.T) {
	auth := NewAuthenticator(testConfig())

	session, err := auth.Login(&model.Credentials{Email: " Admin@TennisCourt.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.Equal(t, "admin@tenniscourt.com", session.Email)
}

func TestLogin_Rejected(t *testing.T) {
	auth := NewAuthenticator(testConfig())

	for _, creds := range []model.Credentials{
		{Email: "admin@tenniscourt.com", Password: "S3cret"},
		{Email: "admin@tenniscourt.com", Password: ""},
		{Email: "other@tenniscourt.com", Password: "s3cret"},
	} {
		_, err := auth.Login(&creds)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "creds %+v", creds)
	}
}

func TestHandler_Login(t *testing.T) {
	cfg := testConfig()
	r := httprouter.New()
	r.POST("/api/admin/login", NewHandler(NewAuthenticator(cfg), cfg).Login)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"admin@tenniscourt.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"token-123","email":"admin@tenniscourt.com"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"admin@tenniscourt.com","password":"nope"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
