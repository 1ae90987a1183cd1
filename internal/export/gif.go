package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/render"
)

// GIFRecorder collects density frames for an animated GIF.
type GIFRecorder struct {
	scale   int
	delay   int
	palette render.Palette
	colors  color.Palette
	frames  []*image.Paletted
}

// NewGIFRecorder renders at scale pixels per cell with delay hundredths of
// a second between frames.
func NewGIFRecorder(scale, delay int, p render.Palette) *GIFRecorder {
	colors := make(color.Palette, 0, 257)
	for i := 0; i < 256; i++ {
		colors = append(colors, p.Color(float64(i)/255))
	}
	colors = append(colors[:255], p.Ghost)
	return &GIFRecorder{scale: scale, delay: delay, palette: p, colors: colors}
}

func (r *GIFRecorder) Add(f *fluid.Field) {
	src := render.Image(f, r.scale, r.palette)
	dst := image.NewPaletted(src.Bounds(), r.colors)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	r.frames = append(r.frames, dst)
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Reset() { r.frames = nil }

func (r *GIFRecorder) Save(path string) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
