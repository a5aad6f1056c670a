// Package frame holds the captured-frame type and the cheap image
// difference used to skip OCR when the screen has not visibly changed.
package frame
