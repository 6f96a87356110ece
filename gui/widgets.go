package gui

import "fmt"

// Color palette for the built-in widgets.
type Color = [4]float32

var (
	White      = Color{1, 1, 1, 1}
	Black      = Color{0, 0, 0, 1}
	Gray       = Color{0.5, 0.5, 0.5, 1}
	DarkGray   = Color{0.08, 0.10, 0.12, 1}
	PanelBg    = Color{0.12, 0.13, 0.15, 1}
	ButtonBg   = Color{0.22, 0.24, 0.28, 1}
	ButtonHot  = Color{0.30, 0.33, 0.38, 1}
	FieldBg    = Color{0.16, 0.17, 0.20, 1}
	AccentBlue = Color{0.25, 0.55, 0.95, 1}
)

// ===== Panel =====

// Panel fills the screen with the background color. Call it first.
func (c *Context) Panel() {
	c.drawRect(c.screenRect, PanelBg)
}

// ===== Label =====

func (c *Context) Label(text string) {
	w, h := c.MeasureText(text)
	r := c.itemRect(w, h)
	c.drawText(r.Min, text, White)
}

// Heading draws a label with extra vertical emphasis spacing.
func (c *Context) Heading(text string) {
	w, h := c.MeasureText(text)
	r := c.itemRect(w, h+4)
	c.drawText(r.Min, text, White)
}

// Labelf is Label with fmt formatting.
func (c *Context) Labelf(format string, args ...any) {
	c.Label(fmt.Sprintf(format, args...))
}

// ===== Button =====

// Button draws a push button and reports whether it was clicked this frame.
func (c *Context) Button(label string) bool {
	tw, th := c.MeasureText(label)
	const padX, padY = 12, 6
	r := c.itemRect(tw+2*padX, th+2*padY)

	bg := ButtonBg
	if c.hovered(r) {
		bg = ButtonHot
	}
	c.drawRect(r, bg)
	c.drawText(Pos2{r.Min.X + padX, r.Min.Y + padY}, label, White)

	click := c.clicked("button:"+label, r)
	if click {
		c.RequestRepaint()
		c.emitPlatform(OutputEvent{Kind: OutputClicked, Widget: WidgetButton})
	}
	return click
}

// ===== TextEdit =====

// TextEdit draws a single-line editable field. It reports whether the text
// changed this frame. Focus follows clicks; Enter and Escape drop focus.
func (c *Context) TextEdit(id string, text *string) bool {
	th := c.LineHeight()
	const padX, padY = 8, 4
	const fieldW = 220
	r := c.itemRect(fieldW, th+2*padY)
	focused := c.focusID == id

	if c.clicked("textedit:"+id, r) && !focused {
		c.focusID = id
		focused = true
		c.RequestRepaint()
		c.emitPlatform(OutputEvent{
			Kind: OutputFocusGained, Widget: WidgetTextEdit,
			HasText: true, Text: *text,
		})
	} else if c.pressed[PointerPrimary] && focused && !r.Contains(c.pointerPos) {
		c.focusID = ""
		focused = false
	}

	changed := false
	if focused {
		for _, ev := range c.events {
			switch e := ev.(type) {
			case EventText:
				*text += e.Text
				changed = true
			case EventPaste:
				*text += e.Text
				changed = true
			case EventCompositionUpdate:
				// Composition preview replaces nothing here; the final
				// text arrives as EventText when the IME commits.
			case EventKey:
				if !e.Pressed {
					continue
				}
				switch e.Key {
				case KeyBackspace:
					if len(*text) > 0 {
						rs := []rune(*text)
						*text = string(rs[:len(rs)-1])
						changed = true
					}
				case KeyEnter, KeyEscape:
					c.focusID = ""
					focused = false
				}
			case EventCopy, EventCut:
				// No host clipboard channel yet; cut still clears.
				if _, isCut := ev.(EventCut); isCut && len(*text) > 0 {
					*text = ""
					changed = true
				}
			}
		}
	}

	bg := FieldBg
	if focused {
		bg = ButtonBg
	}
	c.drawRect(r, bg)
	shown := *text
	if focused && int(c.now*2)%2 == 0 {
		shown += "|"
	}
	// Overflowing content is clipped to the field interior, not spilled
	// over the neighbouring widgets.
	prevClip := c.clip
	c.clip = r.Expand(-1).Intersect(prevClip)
	c.drawText(Pos2{r.Min.X + padX, r.Min.Y + padY}, shown, White)
	c.clip = prevClip

	if changed {
		c.RequestRepaint()
		c.emitPlatform(OutputEvent{
			Kind: OutputValueChanged, Widget: WidgetTextEdit,
			HasText: true, Text: *text,
		})
	}
	return changed
}

// ===== Slider =====

// Slider draws a horizontal integer slider and reports whether the value
// changed this frame.
func (c *Context) Slider(label string, value *int, min, max int) bool {
	if max <= min {
		max = min + 1
	}
	th := c.LineHeight()
	const trackW = 180
	const knobW = 10
	r := c.itemRect(trackW, th+8)

	changed := false
	id := "slider:" + label
	inside := c.hovered(r)
	if c.pressed[PointerPrimary] && inside {
		c.activeID = id
	}
	if c.released[PointerPrimary] && c.activeID == id {
		c.activeID = ""
	}
	if c.activeID == id && c.down[PointerPrimary] {
		t := clamp32(c.pointerPos.Sub(r.Min).X/trackW, 0, 1)
		v := min + int(t*float32(max-min)+0.5)
		if v != *value {
			*value = v
			changed = true
		}
		c.RequestRepaint()
	}

	c.drawRect(r, FieldBg)
	t := float32(*value-min) / float32(max-min)
	knobX := r.Min.X + t*(trackW-knobW)
	c.drawRect(RectMinSize(Pos2{knobX, r.Min.Y}, Vec2{knobW, r.H()}), AccentBlue)
	c.drawText(Pos2{r.Max.X + 8, r.Min.Y + 4}, fmt.Sprintf("%s: %d", label, *value), White)

	if changed {
		c.emitPlatform(OutputEvent{Kind: OutputValueChanged, Widget: WidgetSlider})
	}
	return changed
}

// ===== Separator =====

func (c *Context) Separator() {
	w := c.screenRect.W() - 16
	if w < 0 {
		w = 0
	}
	r := c.itemRect(w, 1)
	c.drawRect(r, Gray)
}

// Space inserts vertical whitespace.
func (c *Context) Space(h float32) {
	c.cursor.Y += h
}
