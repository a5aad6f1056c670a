// Package logging centralizes slog construction and the structured field
// vocabulary used across the pipeline.
//
// Console output goes through tint for readable development logs; the json
// format is plain slog JSON suitable for collection. Context-derived fields
// (session, cycle, question) are attached via WithContext so component code
// never assembles correlation attributes by hand.
package logging
