package imgio

import (
	"image"
	"image/png"
	"io"
)

func savePNG(w io.Writer, img *image.Gray) error {
	return png.Encode(w, img)
}
