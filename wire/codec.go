package wire

import (
	"fmt"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// DecodeError reports a malformed top-level buffer. It is fatal to the call
// that supplied the buffer; callers must surface it rather than treating the
// frame as empty.
type DecodeError struct {
	Msg   string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return "wire: " + e.Msg + ": " + e.Cause.Error()
	}
	return "wire: " + e.Msg
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func decodeErrf(cause error, format string, args ...any) error {
	return &DecodeError{Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// ===== append helpers =====

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendUvarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendMsg appends a nested message even when empty, so "present but all
// defaults" survives a round trip (needed for e.g. a zero-origin screen rect).
func appendMsg(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// ===== consume helpers =====

func consumeFloat(b []byte) (float32, int, error) {
	v, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, n, protowire.ParseError(n)
	}
	return math.Float32frombits(v), n, nil
}

func consumeDouble(b []byte) (float64, int, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, n, protowire.ParseError(n)
	}
	return math.Float64frombits(v), n, nil
}

func consumeUvarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, n, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, n, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n, err := consumeBytes(b)
	if err != nil {
		return "", n, err
	}
	if !utf8.Valid(v) {
		return "", n, fmt.Errorf("invalid utf-8 in string field")
	}
	return string(v), n, nil
}

// skipField discards an unknown field so old decoders tolerate new senders.
func skipField(b []byte, num protowire.Number, typ protowire.Type) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	return n, nil
}

// ===== Pos2 =====

func (p *Pos2) Marshal() []byte {
	var b []byte
	b = appendFloat(b, 1, p.X)
	b = appendFloat(b, 2, p.Y)
	return b
}

func (p *Pos2) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "pos2 tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			p.X, n, err = consumeFloat(b)
		case 2:
			p.Y, n, err = consumeFloat(b)
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "pos2 field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== Rect =====

func (r *Rect) Marshal() []byte {
	var b []byte
	b = appendMsg(b, 1, r.Min.Marshal())
	b = appendMsg(b, 2, r.Max.Marshal())
	return b
}

func (r *Rect) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "rect tag")
		}
		b = b[n:]
		switch num {
		case 1, 2:
			sub, m, err := consumeBytes(b)
			if err != nil {
				return decodeErrf(err, "rect field %d", num)
			}
			p := &r.Min
			if num == 2 {
				p = &r.Max
			}
			if err := p.Unmarshal(sub); err != nil {
				return err
			}
			n = m
		default:
			var err error
			n, err = skipField(b, num, typ)
			if err != nil {
				return decodeErrf(err, "rect field %d", num)
			}
		}
		b = b[n:]
	}
	return nil
}

// ===== Modifiers =====

func (m *Modifiers) Marshal() []byte {
	var b []byte
	b = appendBool(b, 1, m.Alt)
	b = appendBool(b, 2, m.Ctrl)
	b = appendBool(b, 3, m.Shift)
	b = appendBool(b, 4, m.MacCmd)
	b = appendBool(b, 5, m.Command)
	return b
}

func (m *Modifiers) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "modifiers tag")
		}
		b = b[n:]
		var v uint64
		var err error
		switch num {
		case 1, 2, 3, 4, 5:
			v, n, err = consumeUvarint(b)
			if err == nil {
				set := v != 0
				switch num {
				case 1:
					m.Alt = set
				case 2:
					m.Ctrl = set
				case 3:
					m.Shift = set
				case 4:
					m.MacCmd = set
				case 5:
					m.Command = set
				}
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "modifiers field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== KeyEvent =====

func (k *KeyEvent) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, uint64(k.Key))
	b = appendBool(b, 2, k.Pressed)
	if mb := k.Modifiers.Marshal(); len(mb) > 0 {
		b = appendBytes(b, 3, mb)
	}
	return b
}

func (k *KeyEvent) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "key event tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			v, n, err = consumeUvarint(b)
			k.Key = KeyType(v)
		case 2:
			var v uint64
			v, n, err = consumeUvarint(b)
			k.Pressed = v != 0
		case 3:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				err = k.Modifiers.Unmarshal(sub)
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "key event field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== PointerButtonEvent =====

func (p *PointerButtonEvent) Marshal() []byte {
	var b []byte
	b = appendMsg(b, 1, p.Pos.Marshal())
	b = appendUvarint(b, 2, uint64(p.Button))
	b = appendBool(b, 3, p.Pressed)
	if mb := p.Modifiers.Marshal(); len(mb) > 0 {
		b = appendBytes(b, 4, mb)
	}
	return b
}

func (p *PointerButtonEvent) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "pointer button tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				err = p.Pos.Unmarshal(sub)
			}
		case 2:
			var v uint64
			v, n, err = consumeUvarint(b)
			p.Button = ButtonType(v)
		case 3:
			var v uint64
			v, n, err = consumeUvarint(b)
			p.Pressed = v != 0
		case 4:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				err = p.Modifiers.Unmarshal(sub)
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "pointer button field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== Event =====

func (e *Event) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, uint64(e.Type))
	b = appendString(b, 2, e.Paste)
	b = appendString(b, 3, e.Text)
	if e.Key != nil {
		b = appendMsg(b, 4, e.Key.Marshal())
	}
	if e.PointerMoved != nil {
		b = appendMsg(b, 5, e.PointerMoved.Marshal())
	}
	if e.PointerButton != nil {
		b = appendMsg(b, 6, e.PointerButton.Marshal())
	}
	if e.Scroll != nil {
		b = appendMsg(b, 7, e.Scroll.Marshal())
	}
	b = appendFloat(b, 8, e.Zoom)
	b = appendString(b, 9, e.CompositionUpdate)
	return b
}

func (e *Event) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "event tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			v, n, err = consumeUvarint(b)
			e.Type = EventType(v)
		case 2:
			e.Paste, n, err = consumeString(b)
		case 3:
			e.Text, n, err = consumeString(b)
		case 4:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				e.Key = &KeyEvent{}
				err = e.Key.Unmarshal(sub)
			}
		case 5:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				e.PointerMoved = &Pos2{}
				err = e.PointerMoved.Unmarshal(sub)
			}
		case 6:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				e.PointerButton = &PointerButtonEvent{}
				err = e.PointerButton.Unmarshal(sub)
			}
		case 7:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				e.Scroll = &Pos2{}
				err = e.Scroll.Unmarshal(sub)
			}
		case 8:
			e.Zoom, n, err = consumeFloat(b)
		case 9:
			e.CompositionUpdate, n, err = consumeString(b)
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "event field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== Input =====

func (in *Input) Marshal() []byte {
	var b []byte
	if in.ScreenRect != nil {
		b = appendMsg(b, 1, in.ScreenRect.Marshal())
	}
	b = appendBool(b, 2, in.HasFocus)
	b = appendDouble(b, 3, in.Time)
	b = appendFloat(b, 4, in.PixelsPerPoint)
	if in.MaxTextureSide > 0 {
		b = appendUvarint(b, 5, uint64(in.MaxTextureSide))
	}
	if in.Modifiers != nil {
		b = appendMsg(b, 6, in.Modifiers.Marshal())
	}
	b = appendFloat(b, 7, in.PredictedDT)
	for i := range in.Events {
		b = appendMsg(b, 8, in.Events[i].Marshal())
	}
	return b
}

// Unmarshal parses one host frame. A malformed top-level buffer fails with a
// DecodeError. Event entries that are well-framed but internally malformed
// are dropped and counted in DroppedEvents; the remaining sequence is kept in
// order.
func (in *Input) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "input tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				in.ScreenRect = &Rect{}
				err = in.ScreenRect.Unmarshal(sub)
			}
		case 2:
			var v uint64
			v, n, err = consumeUvarint(b)
			in.HasFocus = v != 0
		case 3:
			in.Time, n, err = consumeDouble(b)
		case 4:
			in.PixelsPerPoint, n, err = consumeFloat(b)
		case 5:
			var v uint64
			v, n, err = consumeUvarint(b)
			in.MaxTextureSide = int32(v)
		case 6:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				in.Modifiers = &Modifiers{}
				err = in.Modifiers.Unmarshal(sub)
			}
		case 7:
			in.PredictedDT, n, err = consumeFloat(b)
		case 8:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				var ev Event
				if evErr := ev.Unmarshal(sub); evErr != nil {
					in.DroppedEvents++
				} else {
					in.Events = append(in.Events, ev)
				}
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "input field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== TextureSet =====

func (t *TextureSet) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, t.ID)
	b = appendUvarint(b, 2, uint64(t.OffsetX))
	b = appendUvarint(b, 3, uint64(t.OffsetY))
	b = appendUvarint(b, 4, uint64(t.Width))
	b = appendUvarint(b, 5, uint64(t.Height))
	b = appendUvarint(b, 6, uint64(t.Filter))
	b = appendBytes(b, 7, t.Pixels)
	return b
}

func (t *TextureSet) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "texture set tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1, 2, 3, 4, 5, 6:
			var v uint64
			v, n, err = consumeUvarint(b)
			if err == nil {
				switch num {
				case 1:
					t.ID = v
				case 2:
					t.OffsetX = uint32(v)
				case 3:
					t.OffsetY = uint32(v)
				case 4:
					t.Width = uint32(v)
				case 5:
					t.Height = uint32(v)
				case 6:
					t.Filter = FilterMode(v)
				}
			}
		case 7:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				t.Pixels = append([]byte(nil), sub...)
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "texture set field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== MeshPrim =====

func (m *MeshPrim) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, m.TextureID)
	b = appendUvarint(b, 2, uint64(m.VertexCount))
	b = appendBytes(b, 3, m.Vertices)
	b = appendUvarint(b, 4, uint64(m.IndexCount))
	b = appendBytes(b, 5, m.Indices)
	b = appendMsg(b, 6, m.Clip.Marshal())
	return b
}

func (m *MeshPrim) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "mesh tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			m.TextureID, n, err = consumeUvarint(b)
		case 2:
			var v uint64
			v, n, err = consumeUvarint(b)
			m.VertexCount = uint32(v)
		case 3:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				m.Vertices = append([]byte(nil), sub...)
			}
		case 4:
			var v uint64
			v, n, err = consumeUvarint(b)
			m.IndexCount = uint32(v)
		case 5:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				m.Indices = append([]byte(nil), sub...)
			}
		case 6:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				err = m.Clip.Unmarshal(sub)
			}
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "mesh field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== PlatformEvent =====

func (p *PlatformEvent) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, uint64(p.Kind))
	b = appendUvarint(b, 2, uint64(p.Widget))
	b = appendBool(b, 3, p.HasText)
	b = appendString(b, 4, p.Text)
	return b
}

func (p *PlatformEvent) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "platform event tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			v, n, err = consumeUvarint(b)
			p.Kind = OutputEventKind(v)
		case 2:
			var v uint64
			v, n, err = consumeUvarint(b)
			p.Widget = WidgetKind(v)
		case 3:
			var v uint64
			v, n, err = consumeUvarint(b)
			p.HasText = v != 0
		case 4:
			p.Text, n, err = consumeString(b)
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "platform event field %d", num)
		}
		b = b[n:]
	}
	return nil
}

// ===== Output =====

func (o *Output) Marshal() []byte {
	var b []byte
	b = appendUvarint(b, 1, uint64(o.Version))
	b = appendDouble(b, 2, o.RepaintAfter)
	if len(o.Frees) > 0 {
		var packed []byte
		for _, id := range o.Frees {
			packed = protowire.AppendVarint(packed, id)
		}
		b = appendBytes(b, 3, packed)
	}
	for i := range o.Sets {
		b = appendMsg(b, 4, o.Sets[i].Marshal())
	}
	for i := range o.Meshes {
		b = appendMsg(b, 5, o.Meshes[i].Marshal())
	}
	for i := range o.Platform {
		b = appendMsg(b, 6, o.Platform[i].Marshal())
	}
	b = appendBool(b, 7, o.WantsKeyboard)
	b = appendString(b, 8, o.CurrentText)
	return b
}

func (o *Output) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeErrf(protowire.ParseError(n), "output tag")
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v uint64
			v, n, err = consumeUvarint(b)
			o.Version = uint32(v)
		case 2:
			o.RepaintAfter, n, err = consumeDouble(b)
		case 3:
			// Packed or unpacked encodings both accepted.
			if typ == protowire.VarintType {
				var v uint64
				v, n, err = consumeUvarint(b)
				o.Frees = append(o.Frees, v)
			} else {
				var sub []byte
				sub, n, err = consumeBytes(b)
				for err == nil && len(sub) > 0 {
					var v uint64
					var m int
					v, m, err = consumeUvarint(sub)
					if err == nil {
						o.Frees = append(o.Frees, v)
						sub = sub[m:]
					}
				}
			}
		case 4:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				var ts TextureSet
				if err = ts.Unmarshal(sub); err == nil {
					o.Sets = append(o.Sets, ts)
				}
			}
		case 5:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				var mp MeshPrim
				if err = mp.Unmarshal(sub); err == nil {
					o.Meshes = append(o.Meshes, mp)
				}
			}
		case 6:
			var sub []byte
			sub, n, err = consumeBytes(b)
			if err == nil {
				var pe PlatformEvent
				if err = pe.Unmarshal(sub); err == nil {
					o.Platform = append(o.Platform, pe)
				}
			}
		case 7:
			var v uint64
			v, n, err = consumeUvarint(b)
			o.WantsKeyboard = v != 0
		case 8:
			o.CurrentText, n, err = consumeString(b)
		default:
			n, err = skipField(b, num, typ)
		}
		if err != nil {
			return decodeErrf(err, "output field %d", num)
		}
		b = b[n:]
	}
	return nil
}
