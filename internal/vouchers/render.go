package vouchers

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"tenniscourts/pkg/model"
)

const (
	BusinessName    = "Tennis Court Booking"
	BusinessAddress = "Tomas Marsano 2175, Surquillo"

	LabelPaid     = "PAID"
	LabelDeclined = "DECLINED"

	placeholder = "-"
)

type voucherView struct {
	ID         string
	Brand      string
	Paid       bool
	StateLabel string
	Total      string
	Method     string
	Customer   string
	Court      string
	Date       string
	TimeRange  string
	Address    string
	Comment    string
}

var voucherTemplate = template.Must(template.New("voucher").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>Voucher #{{.ID}}</title>
<meta name="viewport" content="width=device-width,initial-scale=1"/>
<style>
  * { box-sizing: border-box; }
  body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; background: #f5f7fb; margin: 0; padding: 20px; display: flex; justify-content: center; }
  .stub { width: 340px; background: #fff; border-radius: 14px; overflow: hidden; box-shadow: 0 6px 22px rgba(16,24,40,.08); border: 1px solid #eef2f7; }
  .head { background: linear-gradient(135deg, #10b981, #059669); color: #fff; padding: 16px 14px; position: relative; }
  .brand { font-weight: 700; letter-spacing: .3px; }
  .state { position: absolute; right: 12px; top: 12px; font-size: 12px; padding: 4px 8px; border-radius: 999px; background: rgba(255,255,255,.2); }
  .ok { border: 1px solid rgba(255,255,255,.5); }
  .fail { background: #ef4444; }
  .amount { font-size: 24px; font-weight: 800; margin-top: 8px; }
  .body { padding: 14px; }
  .row { display: flex; justify-content: space-between; margin: 6px 0; font-size: 14px; }
  .muted { color: #6b7280; }
  .label { color: #6b7280; font-size: 12px; }
  .strong { font-weight: 600; }
  .footer { padding: 0 14px 14px; }
  .btn { display: block; width: 100%; text-align: center; padding: 10px 12px; border: 1px solid #0f172a; border-radius: 10px; text-decoration: none; color: #0f172a; font-weight: 600; margin-top: 8px; background: none; cursor: pointer; }
  @media print {
    body { background: #fff; padding: 0; }
    .btn { display: none; }
  }
</style>
</head>
<body>
  <div class="stub">
    <div class="head">
      <div class="brand">{{.Brand}}</div>
      <div class="state {{if .Paid}}ok{{else}}fail{{end}}">{{.StateLabel}}</div>
      <div class="amount">Total: {{.Total}}</div>
      <div class="muted" style="font-size:12px; margin-top:4px;">{{.Method}} · Ref {{.ID}}</div>
    </div>
    <div class="body">
      <div class="row"><div class="label">Customer</div><div class="strong">{{.Customer}}</div></div>
      <div class="row"><div class="label">Court</div><div class="strong">{{.Court}}</div></div>
      <div class="row"><div class="label">Date</div><div class="strong">{{.Date}}</div></div>
      <div class="row"><div class="label">Time</div><div class="strong">{{.TimeRange}}</div></div>
      <div class="row"><div class="label">Address</div><div class="strong">{{.Address}}</div></div>
      {{- if .Comment}}
      <div class="row"><div class="label">Comment</div><div class="strong">{{.Comment}}</div></div>
      {{- end}}
    </div>
    <div class="footer">
      <button class="btn" type="button" onclick="window.print()">Print / Save as PDF</button>
      <div class="muted" style="text-align:center; font-size:12px; margin-top:6px;">Demo. Not a real transaction.</div>
    </div>
  </div>
</body>
</html>
`))

// Render produces the voucher page. Every field is HTML-escaped and equal
// input yields identical output.
func Render(rc *ResolvedCharge) ([]byte, error) {
	var buf bytes.Buffer
	if err := voucherTemplate.Execute(&buf, newVoucherView(rc)); err != nil {
		return nil, fmt.Errorf("failed to render voucher %s: %w", rc.ID, err)
	}
	return buf.Bytes(), nil
}

func newVoucherView(rc *ResolvedCharge) voucherView {
	paid := rc.Status == model.ChargeStatusPaid
	label := LabelDeclined
	if paid {
		label = LabelPaid
	}

	method := rc.Method
	if method == "" {
		method = model.MethodMock
	}

	court := placeholder
	if rc.Reservation.Court > 0 {
		court = strconv.Itoa(rc.Reservation.Court)
	}

	res := rc.Reservation
	return voucherView{
		ID:         rc.ID,
		Brand:      BusinessName,
		Paid:       paid,
		StateLabel: label,
		Total:      FormatSoles(rc.AmountSoles),
		Method:     strings.ToUpper(method),
		Customer:   orPlaceholder(firstNonEmpty(res.CustomerName, rc.Email)),
		Court:      court,
		Date:       orPlaceholder(res.Date),
		TimeRange:  orPlaceholder(res.Start) + " – " + orPlaceholder(res.End),
		Address:    BusinessAddress,
		Comment:    res.Comment,
	}
}

func FormatSoles(amount float64) string {
	return fmt.Sprintf("S/ %.2f", amount)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
