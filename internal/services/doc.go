// Package services defines shared utilities consumed by the sampling pipeline
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, cycle numbers, and question
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent status classifications (fatal vs transient).
//   - The Deadline helper that bounds OCR and LLM calls with a single
//     timeout-composition mechanism instead of per-call-site timer logic.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, timeouts) stays uniform across components.
package services
