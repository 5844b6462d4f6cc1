package assets

import (
	"image"

	"github.com/phanxgames/isoscene"
)

// TintByLuminosity blends every opaque pixel toward c in proportion to its
// luminosity: black stays black, white becomes c. Fully transparent pixels
// are copied unchanged.
func TintByLuminosity(src *image.RGBA, c isoscene.Color) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	tr, tg, tb := c.R*255, c.G*255, c.B*255
	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		if a == 0 {
			copy(dst.Pix[i:i+4], src.Pix[i:i+4])
			continue
		}
		// Work on straight alpha, then premultiply back.
		af := float64(a) / 255
		r := float64(src.Pix[i]) / af
		g := float64(src.Pix[i+1]) / af
		b := float64(src.Pix[i+2]) / af
		lum := (0.299*r + 0.587*g + 0.114*b) / 255
		r = r*(1-lum) + tr*lum
		g = g*(1-lum) + tg*lum
		b = b*(1-lum) + tb*lum
		dst.Pix[i] = channel(r * af)
		dst.Pix[i+1] = channel(g * af)
		dst.Pix[i+2] = channel(b * af)
		dst.Pix[i+3] = a
	}
	return dst
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
