package bridge

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hollyoak/guibridge/gui"
	"github.com/hollyoak/guibridge/wire"
)

// Texture id wire packing. The two id spaces (engine-managed and
// user-provided) are kept disjoint by a tag bit in the lowest position:
//
//	wireID = id<<1 | kind    kind 0 = managed, 1 = user
//
// Both directions are exact for ids below 2^63, which is the documented
// limit of the protocol.

// EncodeTextureID packs a texture id and its kind into one integer.
func EncodeTextureID(id gui.TextureID) uint64 {
	tag := uint64(0)
	if id.Kind == gui.TextureUser {
		tag = 1
	}
	return id.ID<<1 | tag
}

// DecodeTextureID recovers the id and kind packed by EncodeTextureID.
func DecodeTextureID(v uint64) gui.TextureID {
	kind := gui.TextureManaged
	if v&1 == 1 {
		kind = gui.TextureUser
	}
	return gui.TextureID{Kind: kind, ID: v >> 1}
}

// packVertices lays out vertices as little-endian float32 octets
// (x y u v r g b a) matching the PaintMesh contract.
func packVertices(vs []gui.Vertex) []byte {
	out := make([]byte, len(vs)*gui.VertexStride)
	o := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(out[o:], math.Float32bits(f))
		o += 4
	}
	for i := range vs {
		v := &vs[i]
		put(v.Pos.X)
		put(v.Pos.Y)
		put(v.UV.X)
		put(v.UV.Y)
		put(v.Color[0])
		put(v.Color[1])
		put(v.Color[2])
		put(v.Color[3])
	}
	return out
}

func packIndices(is []uint32) []byte {
	out := make([]byte, len(is)*4)
	for i, ix := range is {
		binary.LittleEndian.PutUint32(out[i*4:], ix)
	}
	return out
}

func filterCode(f gui.TextureFilter) uint32 {
	if f == gui.FilterNearest {
		return uint32(wire.FilterNearest)
	}
	return uint32(wire.FilterLinear)
}

// meshOf rejects primitives the wire cannot carry. Dropping one silently
// would ship a visually corrupt frame, so this is a hard error.
func meshOf(cp *gui.ClippedPrimitive) (*gui.Mesh, bool) {
	m, ok := cp.Prim.(*gui.Mesh)
	return m, ok
}

// setParams flattens a texture upsert to the callback/wire argument shape.
// The Pos presence bit does not survive: a sub-region patch at (0,0) encodes
// the same as a full upload, and receivers treat a zero offset as full. The
// engine never emits a zero-offset patch, so nothing is lost today; carrying
// the distinction would need a has-offset flag in a future wire revision.
func setParams(up *gui.TextureUpsert) (offX, offY, w, h uint32, pixels []byte) {
	if up.Delta.Pos != nil {
		offX = uint32(up.Delta.Pos[0])
		offY = uint32(up.Delta.Pos[1])
	}
	w = uint32(up.Delta.Image.Size[0])
	h = uint32(up.Delta.Image.Size[1])
	// Coverage payloads expand here with the engine's own gamma contract.
	pixels = up.Delta.Image.ToRGBA()
	return
}

// dispatch replays one frame's output as host callbacks: keyboard state,
// then a begin/end paint bracket around all frees, then all upserts, then
// all meshes, each in the order the engine produced them.
func (inst *Instance) dispatch(fo *gui.FullOutput) Status {
	// Validate before the first callback so a failed frame makes no
	// partial delivery.
	for i := range fo.Primitives {
		if _, ok := meshOf(&fo.Primitives[i]); !ok {
			inst.log.Error("unsupported primitive in frame output")
			return StatusUnsupportedPrimitive
		}
	}

	if kh, ok := inst.host.(KeyboardHost); ok {
		kh.ShowKeyboard(inst.engine.WantsKeyboard(), inst.text)
	}

	inst.host.BeginPaint()
	for _, id := range fo.Textures.Free {
		inst.host.RemTexture(EncodeTextureID(id))
	}
	for i := range fo.Textures.Set {
		up := &fo.Textures.Set[i]
		offX, offY, w, h, pixels := setParams(up)
		inst.host.SetTexture(EncodeTextureID(up.ID), offX, offY, w, h, filterCode(up.Delta.Filter), pixels)
	}
	for i := range fo.Primitives {
		cp := &fo.Primitives[i]
		m, _ := meshOf(cp)
		inst.host.PaintMesh(
			EncodeTextureID(m.Texture),
			uint32(len(m.Vertices)), packVertices(m.Vertices),
			uint32(len(m.Indices)), packIndices(m.Indices),
			cp.Clip.Min.X, cp.Clip.Min.Y, cp.Clip.Max.X, cp.Clip.Max.Y,
		)
	}
	inst.host.EndPaint()
	return StatusOK
}

// encodeOutput serializes one frame's output for batch mode, preserving
// the same frees -> upserts -> meshes ordering the callback path uses.
func encodeOutput(fo *gui.FullOutput, wantsKeyboard bool, text string) ([]byte, Status) {
	out := wire.Output{
		Version:       wire.FormatVersion,
		WantsKeyboard: wantsKeyboard,
		CurrentText:   text,
	}
	for _, id := range fo.Textures.Free {
		out.Frees = append(out.Frees, EncodeTextureID(id))
	}
	for i := range fo.Textures.Set {
		up := &fo.Textures.Set[i]
		offX, offY, w, h, pixels := setParams(up)
		out.Sets = append(out.Sets, wire.TextureSet{
			ID:      EncodeTextureID(up.ID),
			OffsetX: offX, OffsetY: offY,
			Width: w, Height: h,
			Filter: wire.FilterMode(filterCode(up.Delta.Filter)),
			Pixels: pixels,
		})
	}
	for i := range fo.Primitives {
		cp := &fo.Primitives[i]
		m, ok := meshOf(cp)
		if !ok {
			return nil, StatusUnsupportedPrimitive
		}
		out.Meshes = append(out.Meshes, wire.MeshPrim{
			TextureID:   EncodeTextureID(m.Texture),
			VertexCount: uint32(len(m.Vertices)),
			Vertices:    packVertices(m.Vertices),
			IndexCount:  uint32(len(m.Indices)),
			Indices:     packIndices(m.Indices),
			Clip: wire.Rect{
				Min: wire.Pos2{X: cp.Clip.Min.X, Y: cp.Clip.Min.Y},
				Max: wire.Pos2{X: cp.Clip.Max.X, Y: cp.Clip.Max.Y},
			},
		})
	}
	for _, ev := range fo.Platform.Events {
		out.Platform = append(out.Platform, wire.PlatformEvent{
			Kind:    wire.OutputEventKind(ev.Kind),
			Widget:  wire.WidgetKind(ev.Widget),
			HasText: ev.HasText,
			Text:    ev.Text,
		})
	}
	return out.Marshal(), StatusOK
}

// encodeIdle is the batch-mode "nothing to draw" payload: just the version
// and the repaint deadline.
func encodeIdle(after time.Duration) []byte {
	out := wire.Output{Version: wire.FormatVersion, RepaintAfter: after.Seconds()}
	return out.Marshal()
}
