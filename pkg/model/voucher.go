package model

import "strings"

const voucherPrefix = "/voucher/"

// VoucherPath is the relative URL of the voucher for a charge.
func VoucherPath(chargeID string) string {
	return voucherPrefix + chargeID
}

// ChargeIDFromVoucherURL extracts the charge id from a relative or absolute
// voucher URL such as "/voucher/ch_mock_1" or
// "https://host/voucher/ch_mock_1.pdf?fallback=1". It returns "" when the URL
// has no voucher segment.
func ChargeIDFromVoucherURL(url string) string {
	_, rest, found := strings.Cut(url, voucherPrefix)
	if !found {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSuffix(rest, ".pdf")
}
