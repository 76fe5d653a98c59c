// Command blitdemo renders a demo scene with the canvas backend and
// saves it as a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/canvas"
)

func main() {
	var (
		width  = flag.Int("width", 800, "image width")
		height = flag.Int("height", 600, "image height")
		output = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	r := canvas.NewRenderer(*width, *height)

	drawBackground(r, *width, *height)
	drawShapes(r)
	drawBlendModes(r)
	drawMaskDemo(r)
	drawPatternDemo(r)

	if err := savePNG(*output, r.Snapshot()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func drawBackground(r *canvas.Renderer, w, h int) {
	steps := 100
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		r.SetColor(blit.RGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2))
		y := float64(h) * t
		r.FillRect(0, y, float64(w), float64(h)/float64(steps)+1)
	}
}

func drawShapes(r *canvas.Renderer) {
	r.SetColor(blit.RGBA{R: 1, G: 0.3, B: 0.3, A: 0.8})
	r.FillEllipse(150, 150, 60, 60)

	r.SetColor(blit.RGBA{R: 0.3, G: 1, B: 0.3, A: 0.8})
	r.FillEllipse(200, 150, 60, 60)

	r.SetColor(blit.RGBA{R: 0.3, G: 0.3, B: 1, A: 0.8})
	r.FillEllipse(250, 150, 60, 60)

	r.SetColor(blit.White)
	r.SetLineWidth(3)
	r.StrokeRoundedRect(80, 260, 240, 80, 16)

	r.SetColor(blit.RGBA{R: 1, G: 0.8, B: 0.2, A: 1})
	r.FillArc(200, 450, 70, 0.25*math.Pi, 1.75*math.Pi)

	star := blit.Polygon{X: 450, Y: 150}
	for i := 0; i < 10; i++ {
		radius := 70.0
		if i%2 == 1 {
			radius = 30
		}
		a := float64(i) * math.Pi / 5
		star.Points = append(star.Points, blit.Point{
			X: radius * math.Sin(a),
			Y: -radius * math.Cos(a),
		})
	}
	r.SetColor(blit.RGBA{R: 1, G: 0.9, B: 0.3, A: 1})
	r.FillPolygon(star)
}

func drawBlendModes(r *canvas.Renderer) {
	r.Save()
	r.Translate(560, 80)
	modes := []blit.BlendMode{
		blit.BlendNormal, blit.BlendMultiply, blit.BlendLighter, blit.BlendScreen,
	}
	for i, m := range modes {
		y := float64(i) * 60
		r.SetBlendMode(blit.BlendNormal)
		r.SetColor(blit.RGBA{R: 0.9, G: 0.2, B: 0.2, A: 1})
		r.FillRect(0, y, 120, 40)
		r.SetBlendMode(m)
		r.SetColor(blit.RGBA{R: 0.2, G: 0.4, B: 0.9, A: 1})
		r.FillRect(60, y+10, 120, 20)
	}
	r.SetBlendMode(blit.BlendNormal)
	r.Restore()
}

func drawMaskDemo(r *canvas.Renderer) {
	r.SetMask(blit.Ellipse{X: 450, Y: 450, RX: 90, RY: 90}, false)
	for i := 0; i < 12; i++ {
		r.SetColor(blit.RGB(0.2, 0.5+float64(i%2)*0.3, 0.8))
		r.FillRect(360, 360+float64(i)*15, 180, 15)
	}
	r.ClearMask()
}

func drawPatternDemo(r *canvas.Renderer) {
	tile := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if (x/8+y/8)%2 == 0 {
				tile.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
			} else {
				tile.SetRGBA(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
			}
		}
	}
	p := r.CreatePattern(tile, blit.RepeatXY)
	r.DrawPattern(p, 600, 380, 160, 160)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
