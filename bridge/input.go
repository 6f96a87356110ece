package bridge

import (
	"log/slog"

	"github.com/hollyoak/guibridge/gui"
	"github.com/hollyoak/guibridge/wire"
)

// decodeInput turns a serialized wire.Input into the engine's native input
// snapshot. Top-level decode failures are fatal to the call and must reach
// the caller; silently treating them as an empty frame would desynchronize
// host and engine input state. Per-event problems (unknown enum tag,
// missing nested payload) only drop that event.
//
// Numeric presence fields use the <= 0 sentinel: they translate to nil
// pointers so the engine keeps its last-known values.
func decodeInput(buf []byte, log *slog.Logger) (gui.RawInput, error) {
	var in wire.Input
	if err := in.Unmarshal(buf); err != nil {
		return gui.RawInput{}, err
	}
	if in.DroppedEvents > 0 {
		log.Warn("malformed input events skipped", "count", in.DroppedEvents)
	}

	raw := gui.RawInput{
		HasFocus:    in.HasFocus,
		PredictedDT: in.PredictedDT,
	}
	if in.ScreenRect != nil {
		r := rectToNative(*in.ScreenRect)
		raw.ScreenRect = &r
	}
	if in.Time > 0 {
		t := in.Time
		raw.Time = &t
	}
	if in.PixelsPerPoint > 0 {
		ppp := in.PixelsPerPoint
		raw.PixelsPerPoint = &ppp
	}
	if in.MaxTextureSide > 0 {
		side := int(in.MaxTextureSide)
		raw.MaxTextureSide = &side
	}
	if in.Modifiers != nil {
		m := modifiersToNative(*in.Modifiers)
		raw.Modifiers = &m
	}

	for i := range in.Events {
		ev, ok := eventToNative(&in.Events[i])
		if !ok {
			log.Debug("input event skipped", "type", uint32(in.Events[i].Type))
			continue
		}
		raw.Events = append(raw.Events, ev)
	}
	return raw, nil
}

// eventToNative maps one wire event to the engine's event model. It returns
// false for unknown tags and for events whose required payload is missing,
// which the caller drops without failing the frame.
func eventToNative(e *wire.Event) (gui.Event, bool) {
	switch e.Type {
	case wire.EventCopy:
		return gui.EventCopy{}, true
	case wire.EventCut:
		return gui.EventCut{}, true
	case wire.EventPaste:
		return gui.EventPaste{Text: e.Paste}, true
	case wire.EventText:
		return gui.EventText{Text: e.Text}, true
	case wire.EventKey:
		if e.Key == nil {
			return nil, false
		}
		k, ok := keyToNative(e.Key.Key)
		if !ok {
			return nil, false
		}
		return gui.EventKey{
			Key:     k,
			Pressed: e.Key.Pressed,
			Mods:    modifiersToNative(e.Key.Modifiers),
		}, true
	case wire.EventPointerMoved:
		if e.PointerMoved == nil {
			return nil, false
		}
		return gui.EventPointerMoved{Pos: posToNative(*e.PointerMoved)}, true
	case wire.EventPointerButton:
		if e.PointerButton == nil {
			return nil, false
		}
		b, ok := buttonToNative(e.PointerButton.Button)
		if !ok {
			return nil, false
		}
		return gui.EventPointerButton{
			Pos:     posToNative(e.PointerButton.Pos),
			Button:  b,
			Pressed: e.PointerButton.Pressed,
			Mods:    modifiersToNative(e.PointerButton.Modifiers),
		}, true
	case wire.EventPointerGone:
		return gui.EventPointerGone{}, true
	case wire.EventScroll:
		if e.Scroll == nil {
			return nil, false
		}
		return gui.EventScroll{Delta: gui.Vec2{X: e.Scroll.X, Y: e.Scroll.Y}}, true
	case wire.EventZoom:
		return gui.EventZoom{Factor: e.Zoom}, true
	case wire.EventCompositionStart:
		return gui.EventCompositionStart{}, true
	case wire.EventCompositionUpdate:
		return gui.EventCompositionUpdate{Text: e.CompositionUpdate}, true
	default:
		// EventNone, EventTouch and anything newer than this decoder.
		return nil, false
	}
}

// The wire and native key tables share one ordering; this trips at compile
// time if they drift apart.
var _ = [1]struct{}{}[int(wire.KeyF20)-int(gui.KeyF20)]

func keyToNative(k wire.KeyType) (gui.Key, bool) {
	if k == wire.KeyNone || k > wire.KeyF20 {
		return gui.KeyNone, false
	}
	return gui.Key(k), true
}

func buttonToNative(b wire.ButtonType) (gui.PointerButton, bool) {
	switch b {
	case wire.ButtonPrimary:
		return gui.PointerPrimary, true
	case wire.ButtonSecondary:
		return gui.PointerSecondary, true
	case wire.ButtonMiddle:
		return gui.PointerMiddle, true
	case wire.ButtonExtra1:
		return gui.PointerExtra1, true
	case wire.ButtonExtra2:
		return gui.PointerExtra2, true
	default:
		return 0, false
	}
}

func modifiersToNative(m wire.Modifiers) gui.Modifiers {
	return gui.Modifiers{
		Alt:     m.Alt,
		Ctrl:    m.Ctrl,
		Shift:   m.Shift,
		MacCmd:  m.MacCmd,
		Command: m.Command,
	}
}

func posToNative(p wire.Pos2) gui.Pos2 { return gui.Pos2{X: p.X, Y: p.Y} }

func rectToNative(r wire.Rect) gui.Rect {
	return gui.Rect{Min: posToNative(r.Min), Max: posToNative(r.Max)}
}
