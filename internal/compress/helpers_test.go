package compress_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"testing"
)

func writeTestGIF(t *testing.T, path string) {
	t.Helper()
	g := &gif.GIF{}
	palette := color.Palette{color.Black, color.White}
	for i := 0; i < 4; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 16, 12), palette)
		for p := range img.Pix {
			img.Pix[p] = uint8((i + p) % 2)
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write gif: %v", err)
	}
}
