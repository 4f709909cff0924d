package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tenniscourts/pkg/config"
	"tenniscourts/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) Count(context.Context) (int64, error) { return f.n, f.err }

func newRouter(db Pinger, charges ChargeCounter) *httprouter.Router {
	cfg := config.Defaults()
	cfg.Log = logger.NewNop()
	cfg.AllowedOrigins = []string{"http://localhost:3000"}

	h := NewHealthHandler(db, charges, true, cfg)
	r := httprouter.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newRouter(fakePinger{}, fakeCounter{n: 4}), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"payment_mode":"mock","price_per_hour":35,"pdf":true,"allowed_origins":["http://localhost:3000"],"charges_in_db":4}`, rec.Body.String())
}

func TestHealth_CountFailureStillOK(t *testing.T) {
	rec := get(newRouter(fakePinger{}, fakeCounter{err: errors.New("timeout")}), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"charges_in_db":0`)
}

func TestReady(t *testing.T) {
	rec := get(newRouter(fakePinger{}, fakeCounter{}), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","database":"ok"}`, rec.Body.String())

	rec = get(newRouter(fakePinger{err: errors.New("no primary")}, fakeCounter{}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
