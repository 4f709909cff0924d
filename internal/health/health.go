package health

import (
	"context"
	"net/http"
	"time"

	"tenniscourts/pkg/config"
	httputil "tenniscourts/pkg/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type ChargeCounter interface {
	Count(ctx context.Context) (int64, error)
}

type HealthResponse struct {
	OK             bool     `json:"ok"`
	PaymentMode    string   `json:"payment_mode"`
	PricePerHour   float64  `json:"price_per_hour"`
	PDF            bool     `json:"pdf"`
	AllowedOrigins []string `json:"allowed_origins"`
	ChargesInDB    int64    `json:"charges_in_db"`
}

type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type HealthHandler struct {
	db           Pinger
	charges      ChargeCounter
	pdfAvailable bool
	cfg          *config.Config
}

func NewHealthHandler(db Pinger, charges ChargeCounter, pdfAvailable bool, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		db:           db,
		charges:      charges,
		pdfAvailable: pdfAvailable,
		cfg:          cfg,
	}
}

// Health reports the runtime settings. A failing charge count is logged and
// reported as zero so the health check stays up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := h.charges.Count(r.Context())
	if err != nil {
		h.cfg.Log.Warn("Failed to count charges for health", "error", err)
		count = 0
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		OK:             true,
		PaymentMode:    h.cfg.PaymentMode,
		PricePerHour:   h.cfg.PricePerHour,
		PDF:            h.pdfAvailable,
		AllowedOrigins: h.cfg.AllowedOrigins,
		ChargesInDB:    count,
	}); err != nil {
		h.cfg.Log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx, nil); err != nil {
		h.cfg.Log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.cfg.Log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ReadyResponse{
		Status:   "ready",
		Database: "ok",
	}); err != nil {
		h.cfg.Log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}
