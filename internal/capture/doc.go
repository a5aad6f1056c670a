// Package capture produces screen frames for the recognition pipeline.
// The live source shells out to ffmpeg and reads an MJPEG stream from its
// stdout; the replay source reads still images from a directory, which keeps
// the rest of the pipeline testable without a display.
package capture
