package frame

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"
)

// Frame is a single captured screen image, still in its encoded form.
// Decoding is deferred until the pipeline actually needs pixels.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Index  int64
	Taken  time.Time
}

// Valid reports whether the frame carries usable image data with known
// positive dimensions.
func (f Frame) Valid() bool {
	return len(f.Data) > 0 && f.Width > 0 && f.Height > 0
}

// Dimensions reads the image header without decoding pixel data.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

const (
	// diffGrid is the side length of the sampling grid. Comparing a fixed
	// grid keeps the cost independent of capture resolution.
	diffGrid = 48

	// channelThreshold is the per-channel delta below which two samples
	// count as equal. RGBA returns 16-bit channels, so the 8-bit value 10
	// is shifted up.
	channelThreshold = 10 << 8
)

// Difference returns the fraction of sampled pixels that differ between two
// encoded images, in [0, 1]. A pixel differs when any color channel moves by
// more than the per-channel threshold. Undecodable or empty input is treated
// as fully different so the caller never skips work on bad data.
func Difference(a, b []byte) float64 {
	imgA, err := decode(a)
	if err != nil {
		return 1
	}
	imgB, err := decode(b)
	if err != nil {
		return 1
	}
	return sampledDifference(imgA, imgB)
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, image.ErrFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// sampledDifference walks a diffGrid x diffGrid lattice over both images,
// mapping grid coordinates into each image's own bounds so frames of
// different resolutions remain comparable.
func sampledDifference(a, b image.Image) float64 {
	boundsA := a.Bounds()
	boundsB := b.Bounds()
	if boundsA.Empty() || boundsB.Empty() {
		return 1
	}

	var changed int
	for gy := 0; gy < diffGrid; gy++ {
		for gx := 0; gx < diffGrid; gx++ {
			ax := boundsA.Min.X + gx*boundsA.Dx()/diffGrid
			ay := boundsA.Min.Y + gy*boundsA.Dy()/diffGrid
			bx := boundsB.Min.X + gx*boundsB.Dx()/diffGrid
			by := boundsB.Min.Y + gy*boundsB.Dy()/diffGrid

			ra, ga, ba, _ := a.At(ax, ay).RGBA()
			rb, gb, bb, _ := b.At(bx, by).RGBA()
			if delta(ra, rb) > channelThreshold ||
				delta(ga, gb) > channelThreshold ||
				delta(ba, bb) > channelThreshold {
				changed++
			}
		}
	}
	return float64(changed) / float64(diffGrid*diffGrid)
}

func delta(x, y uint32) uint32 {
	if x > y {
		return x - y
	}
	return y - x
}
