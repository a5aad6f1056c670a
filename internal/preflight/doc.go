// Package preflight provides readiness checks for external tools and
// services that Glimpse depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll before starting a capture session so a missing
//     tesseract or an invalid API key surfaces immediately instead of a few
//     frames in.
//   - The CLI "glimpse doctor" command uses the same checks to display
//     environment health.
//
// Each check is gated by its config selection -- backends not in use are
// skipped.
package preflight
