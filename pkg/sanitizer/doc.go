// Package sanitizer provides input normalization for customer-supplied data.
//
// All functions are idempotent and never fail: invalid input comes back in a
// form the validators will reject (usually the empty string) instead of an
// error.
//
// Normalization includes:
//   - Phone numbers: keep digits only, "987 654 321" becomes "987654321"
//   - Emails: trim and lowercase
//   - Names and comments: collapse whitespace, trim leading/trailing spaces
//   - Numbers: clamp to valid ranges
package sanitizer
