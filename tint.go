package blit

import (
	"image"
	"image/draw"

	"github.com/gogpu/blit/internal/cache"
)

// defaultTintCapacity bounds the number of tinted variants kept alive.
// Tinting is cheap to redo; unbounded retention is not.
const defaultTintCapacity = 128

// tintKey identifies a tinted variant of a source image.
// Colors are quantized to 8 bits per channel, matching what the tint
// operation can actually produce.
type tintKey struct {
	src     image.Image
	r, g, b uint8
}

// TintCache supplies tinted image variants on demand.
//
// Tint is a pure function from (image, color) to a color-modulated
// image; the cache memoizes it keyed by source image and quantized
// color. Renderers consult the cache whenever the active tint is not
// pure white.
type TintCache struct {
	cache *cache.Cache[tintKey, *image.RGBA]
}

// NewTintCache creates a tint cache with the default capacity.
func NewTintCache() *TintCache {
	return NewTintCacheSize(defaultTintCapacity)
}

// NewTintCacheSize creates a tint cache holding at most capacity
// variants. A capacity of 0 means unlimited.
func NewTintCacheSize(capacity int) *TintCache {
	return &TintCache{cache: cache.New[tintKey, *image.RGBA](capacity)}
}

// Tint returns img with its color channels multiplied by c's channels.
// Alpha is preserved. The returned image is shared between callers and
// must not be mutated.
func (t *TintCache) Tint(img image.Image, c RGBA) image.Image {
	if c.IsWhite() {
		return img
	}
	key := tintKey{
		src: img,
		r:   uint8(clamp255(c.R * 255)),
		g:   uint8(clamp255(c.G * 255)),
		b:   uint8(clamp255(c.B * 255)),
	}
	return t.cache.GetOrCreate(key, func() *image.RGBA {
		return tintImage(img, key.r, key.g, key.b)
	})
}

// Len returns the number of cached variants.
func (t *TintCache) Len() int { return t.cache.Len() }

// Clear drops all cached variants.
func (t *TintCache) Clear() { t.cache.Clear() }

// tintImage produces a premultiplied RGBA copy of img with each color
// channel scaled by the corresponding tint channel.
func tintImage(img image.Image, r, g, b uint8) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	pix := dst.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = uint8(uint32(pix[i+0]) * uint32(r) / 255)
		pix[i+1] = uint8(uint32(pix[i+1]) * uint32(g) / 255)
		pix[i+2] = uint8(uint32(pix[i+2]) * uint32(b) / 255)
	}
	return dst
}
