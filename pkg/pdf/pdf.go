// Package pdf converts HTML documents to PDF with wkhtmltopdf.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"tenniscourts/pkg/logger"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

const DefaultBinary = "wkhtmltopdf"

var ErrUnavailable = errors.New("pdf renderer is not available")

type Renderer interface {
	Available() bool
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// generateFunc turns a configured generator into PDF bytes.
type generateFunc func(ctx context.Context, pdfg *wkhtmltopdf.PDFGenerator) ([]byte, error)

type htmlRenderer struct {
	path         string
	newGenerator func() (*wkhtmltopdf.PDFGenerator, error)
	generate     generateFunc
}

// New locates the converter. path may be empty (search $PATH for wkhtmltopdf),
// a bare name, or an absolute path. When nothing is found the returned renderer
// reports Available() == false.
func New(path string, log *logger.Logger) Renderer {
	if path == "" {
		path = DefaultBinary
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		log.Info("PDF renderer not found, vouchers will be served as HTML", "path", path)
		return &htmlRenderer{newGenerator: wkhtmltopdf.NewPDFGenerator, generate: createPDF}
	}
	wkhtmltopdf.SetPath(resolved)
	log.Info("PDF renderer enabled", "path", resolved)
	return &htmlRenderer{path: resolved, newGenerator: wkhtmltopdf.NewPDFGenerator, generate: createPDF}
}

func (r *htmlRenderer) Available() bool {
	return r.path != ""
}

func (r *htmlRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if !r.Available() {
		return nil, ErrUnavailable
	}

	pdfg, err := r.newGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}
	configure(pdfg, html)

	out, err := r.generate(ctx, pdfg)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return nil, fmt.Errorf("pdf renderer produced %d bytes without a PDF header", len(out))
	}
	return out, nil
}

// configure adds html as the only page, read from stdin.
func configure(pdfg *wkhtmltopdf.PDFGenerator, html []byte) {
	pdfg.Quiet.Set(true)
	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)
}

func createPDF(ctx context.Context, pdfg *wkhtmltopdf.PDFGenerator) ([]byte, error) {
	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf failed: %w", err)
	}
	return pdfg.Bytes(), nil
}

// Unavailable is a Renderer that never renders.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Render(context.Context, []byte) ([]byte, error) {
	return nil, ErrUnavailable
}
