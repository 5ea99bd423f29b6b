package formats

import (
	"image"
)

// EncodeTGA encodes an image as an uncompressed true-color (type 2) 24-bit
// TGA, the variant the engine's texture loader accepts everywhere.
func EncodeTGA(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := make([]byte, 18, 18+width*height*3)
	out[2] = 2 // uncompressed true-color
	out[12] = byte(width)
	out[13] = byte(width >> 8)
	out[14] = byte(height)
	out[15] = byte(height >> 8)
	out[16] = 24   // bits per pixel
	out[17] = 0x20 // top-to-bottom row order

	for z := bounds.Min.Y; z < bounds.Max.Y; z++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, z).RGBA()
			// TGA stores BGR.
			out = append(out, byte(b>>8), byte(g>>8), byte(r>>8))
		}
	}
	return out
}
