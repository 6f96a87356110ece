package gui

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes one packed glyph in the atlas.
type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // baseline to glyph top, pixels
	W, H     int     // glyph bitmap size
	U0, V0   float32 // UVs in atlas
	U1, V1   float32
}

// fontAtlas is a shelf-packed coverage atlas built from the embedded Go
// Regular face. It is uploaded to the host as managed texture 0; the first
// pixels are a solid block so untextured quads can sample white.
type fontAtlas struct {
	SizePx   float32
	Ascent   float32
	Descent  float32
	LineGap  float32
	Glyphs   map[rune]Glyph
	W, H     int
	Coverage []float32
	WhiteUV  Pos2
}

const (
	atlasPad   = 1
	whiteBlock = 4 // solid region in the top-left corner
)

// buildAtlas rasterizes ASCII 32..126 at sizePx (already scaled by
// pixels-per-point) into a single coverage atlas no wider than maxSide.
func buildAtlas(sizePx float32, maxSide int) (*fontAtlas, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	fa := &fontAtlas{
		SizePx:  sizePx,
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(-m.Descent.Round()),
		Glyphs:  make(map[rune]Glyph, 95),
	}
	fa.LineGap = float32(m.Height.Round()) - fa.Ascent + fa.Descent

	atlasW := 512
	if maxSide > 0 && maxSide < atlasW {
		atlasW = maxSide
	}

	// Shelf packing pass: place the white block, then every glyph.
	type placed struct {
		r    rune
		x, y int
		g    Glyph
		mask *image.Alpha
	}
	var out []placed
	x, y := whiteBlock+atlasPad, 0
	shelfH := whiteBlock + atlasPad
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := dr.Dx(), dr.Dy()
		if w+atlasPad > atlasW {
			return nil, fmt.Errorf("glyph %q wider than atlas (%d > %d)", r, w, atlasW)
		}
		if x+w+atlasPad > atlasW {
			x = 0
			y += shelfH
			shelfH = 0
		}
		if h+atlasPad > shelfH {
			shelfH = h + atlasPad
		}
		am, _ := mask.(*image.Alpha)
		sub := image.NewAlpha(image.Rect(0, 0, w, h))
		if am != nil {
			for gy := 0; gy < h; gy++ {
				for gx := 0; gx < w; gx++ {
					sub.SetAlpha(gx, gy, am.AlphaAt(maskp.X+gx, maskp.Y+gy))
				}
			}
		}
		out = append(out, placed{
			r: r, x: x, y: y,
			g: Glyph{
				Rune:     r,
				Advance:  float32(adv.Round()),
				BearingX: float32(dr.Min.X),
				BearingY: float32(-dr.Min.Y),
				W:        w, H: h,
			},
			mask: sub,
		})
		x += w + atlasPad
	}
	atlasH := y + shelfH
	if atlasH < whiteBlock+atlasPad {
		atlasH = whiteBlock + atlasPad
	}
	if maxSide > 0 && atlasH > maxSide {
		return nil, fmt.Errorf("font atlas %dx%d exceeds max texture side %d", atlasW, atlasH, maxSide)
	}

	fa.W, fa.H = atlasW, atlasH
	fa.Coverage = make([]float32, atlasW*atlasH)
	for by := 0; by < whiteBlock; by++ {
		for bx := 0; bx < whiteBlock; bx++ {
			fa.Coverage[by*atlasW+bx] = 1
		}
	}
	fa.WhiteUV = Pos2{
		X: float32(whiteBlock) / 2 / float32(atlasW),
		Y: float32(whiteBlock) / 2 / float32(atlasH),
	}

	for _, p := range out {
		for gy := 0; gy < p.g.H; gy++ {
			for gx := 0; gx < p.g.W; gx++ {
				a := p.mask.AlphaAt(gx, gy).A
				fa.Coverage[(p.y+gy)*atlasW+(p.x+gx)] = float32(a) / 255
			}
		}
		g := p.g
		g.U0 = float32(p.x) / float32(atlasW)
		g.V0 = float32(p.y) / float32(atlasH)
		g.U1 = float32(p.x+g.W) / float32(atlasW)
		g.V1 = float32(p.y+g.H) / float32(atlasH)
		fa.Glyphs[p.r] = g
	}
	return fa, nil
}

// delta wraps the whole atlas as a full-image texture upsert.
func (fa *fontAtlas) delta(id TextureID) TextureUpsert {
	return TextureUpsert{
		ID: id,
		Delta: ImageDelta{
			Filter: FilterLinear,
			Image: ImageData{
				Size:     [2]int{fa.W, fa.H},
				Coverage: fa.Coverage,
			},
		},
	}
}

// measure returns the pixel width and line height of a single-line string.
func (fa *fontAtlas) measure(s string) (w, h float32) {
	for _, r := range s {
		g, ok := fa.Glyphs[r]
		if !ok {
			g, ok = fa.Glyphs['?']
			if !ok {
				continue
			}
		}
		w += g.Advance
	}
	return w, fa.Ascent - fa.Descent
}
