package handler

import (
	"fmt"
	"net/http"
	"strings"

	"tenniscourts/internal/vouchers"
	apperrors "tenniscourts/pkg/errors"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/pdf"

	"github.com/julienschmidt/httprouter"
)

const pdfSuffix = ".pdf"

type VoucherHandler struct {
	resolver *vouchers.Resolver
	pdf      pdf.Renderer
	log      *logger.Logger
}

func NewVoucherHandler(resolver *vouchers.Resolver, renderer pdf.Renderer, log *logger.Logger) *VoucherHandler {
	return &VoucherHandler{
		resolver: resolver,
		pdf:      renderer,
		log:      log,
	}
}

// Get serves /voucher/:id as HTML, or as a PDF when the id ends in ".pdf".
// The PDF variant falls back to HTML when no renderer is usable.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	wantPDF := strings.HasSuffix(id, pdfSuffix)
	id = strings.TrimSuffix(id, pdfSuffix)

	resolved, err := h.resolver.Resolve(r.Context(), id, vouchers.FallbackQueryFromValues(r.URL.Query()))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	page, err := vouchers.Render(resolved)
	if err != nil {
		h.log.Error("Failed to render voucher", "charge_id", id, "error", err)
		h.writeError(w, "Get", apperrors.Internal("Failed to render voucher", err))
		return
	}

	if wantPDF && h.pdf.Available() {
		document, err := h.pdf.Render(r.Context(), page)
		if err == nil {
			h.writePDF(w, id, document)
			return
		}
		h.log.Warn("PDF conversion failed, serving HTML", "charge_id", id, "error", err)
	}

	if err := httputil.WriteHTML(w, http.StatusOK, page); err != nil {
		h.log.Error("failed to write html response", "handler", "Get", "operation", "WriteHTML", "error", err)
	}
}

func (h *VoucherHandler) writePDF(w http.ResponseWriter, id string, document []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="voucher_%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		h.log.Error("failed to write pdf response", "handler", "Get", "operation", "Write", "error", err)
	}
}

func (h *VoucherHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
