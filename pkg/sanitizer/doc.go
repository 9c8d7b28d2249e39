// Package sanitizer provides input normalization for court and review data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Phone numbers: strip formatting, keep an E.164-style +[country][number]
//   - URLs: enforce HTTPS, lowercase domains, preserve paths
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Numbers: clamp to valid ranges
package sanitizer
