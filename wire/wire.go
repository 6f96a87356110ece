// Package wire defines the binary frame protocol spoken between a host
// engine and the GUI bridge. One Input message travels host -> bridge per
// frame; one Output message (or an equivalent callback replay) travels back.
//
// Every field is optional. Numeric fields whose true domain is positive use
// <= 0 as the "unset" sentinel, meaning "no change from the previous frame",
// never "reset to zero". Collections default to empty when absent. Enums
// reserve value 0 as none/unknown so an absent or future enumerant decodes
// to "ignore" instead of aliasing the first real value.
package wire

// FormatVersion is carried in every Output message so hosts can detect a
// protocol mismatch before interpreting the payload.
const FormatVersion = 1

// EventType discriminates Event entries.
type EventType uint32

const (
	EventNone EventType = iota
	EventCopy
	EventCut
	EventPaste
	EventText
	EventKey
	EventPointerMoved
	EventPointerButton
	EventPointerGone
	EventScroll
	EventZoom
	EventCompositionStart
	EventCompositionUpdate
	EventTouch
)

// ButtonType identifies a pointer button.
type ButtonType uint32

const (
	ButtonNone ButtonType = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
	ButtonExtra1
	ButtonExtra2
)

// FilterMode selects texture sampling. The numeric values are part of the
// host callback contract: 1 = nearest, 2 = linear.
type FilterMode uint32

const (
	FilterUnknown FilterMode = iota
	FilterNearest
	FilterLinear
)

// KeyType enumerates logical keys. Value 0 is reserved for "none".
type KeyType uint32

const (
	KeyNone KeyType = iota
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyEscape
	KeyTab
	KeyBackspace
	KeyEnter
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

// OutputEventKind discriminates platform output events emitted by the GUI.
type OutputEventKind uint32

const (
	OutputEventNone OutputEventKind = iota
	OutputEventClicked
	OutputEventDoubleClicked
	OutputEventTripleClicked
	OutputEventFocusGained
	OutputEventTextSelectionChanged
	OutputEventValueChanged
)

// WidgetKind identifies the widget a platform event refers to.
type WidgetKind uint32

const (
	WidgetNone WidgetKind = iota
	WidgetLabel
	WidgetButton
	WidgetTextEdit
	WidgetSlider
	WidgetOther
)

// Pos2 is a 2D point in logical points.
type Pos2 struct {
	X float32
	Y float32
}

// Rect is an axis-aligned rectangle, Min inclusive, Max exclusive.
type Rect struct {
	Min Pos2
	Max Pos2
}

// Modifiers mirrors the keyboard modifier state for one event or frame.
type Modifiers struct {
	Alt     bool
	Ctrl    bool
	Shift   bool
	MacCmd  bool
	Command bool
}

// KeyEvent is the payload of an EventKey entry.
type KeyEvent struct {
	Key       KeyType
	Pressed   bool
	Modifiers Modifiers
}

// PointerButtonEvent is the payload of an EventPointerButton entry.
type PointerButtonEvent struct {
	Pos       Pos2
	Button    ButtonType
	Pressed   bool
	Modifiers Modifiers
}

// Event is one input event. Type selects which payload field is meaningful;
// the rest stay zero on the wire.
type Event struct {
	Type              EventType
	Paste             string
	Text              string
	Key               *KeyEvent
	PointerMoved      *Pos2
	PointerButton     *PointerButtonEvent
	Scroll            *Pos2
	Zoom              float32
	CompositionUpdate string
}

// Input is one host -> bridge frame.
//
// Time, PixelsPerPoint and MaxTextureSide use the <= 0 sentinel: a sender
// that has nothing new to report leaves them at zero and the receiver keeps
// its last-known values.
type Input struct {
	ScreenRect     *Rect
	HasFocus       bool
	Time           float64
	PixelsPerPoint float32
	MaxTextureSide int32
	Modifiers      *Modifiers
	PredictedDT    float32
	Events         []Event

	// DroppedEvents counts event entries whose nested encoding was
	// malformed and were skipped during Unmarshal. Not sent on the wire.
	DroppedEvents int
}

// TextureSet is one texture upsert: either a full image (OffsetX/Y zero and
// Width/Height the full size) or a sub-region patch. Pixels is tightly packed
// RGBA, 4 bytes per texel, row-major.
type TextureSet struct {
	ID      uint64
	OffsetX uint32
	OffsetY uint32
	Width   uint32
	Height  uint32
	Filter  FilterMode
	Pixels  []byte
}

// MeshPrim is one clipped draw primitive. Vertices is a packed array of
// VertexCount entries laid out as 8 little-endian float32s each
// (x, y, u, v, r, g, b, a); Indices is IndexCount little-endian uint32s.
type MeshPrim struct {
	TextureID   uint64
	VertexCount uint32
	Vertices    []byte
	IndexCount  uint32
	Indices     []byte
	Clip        Rect
}

// PlatformEvent is one semantic GUI notification (focus, click, value
// change) used by hosts to drive platform affordances such as IME
// visibility. HasText distinguishes "empty text value" from "no text value".
type PlatformEvent struct {
	Kind    OutputEventKind
	Widget  WidgetKind
	HasText bool
	Text    string
}

// Output is one bridge -> host frame in batch mode.
//
// RepaintAfter > 0 means the GUI decided nothing needs repainting yet; all
// delivery collections are empty in that case. Delivery order within a frame
// is fixed: all Frees, then all Sets, then all Meshes, each in produced order.
type Output struct {
	Version       uint32
	RepaintAfter  float64
	Frees         []uint64
	Sets          []TextureSet
	Meshes        []MeshPrim
	Platform      []PlatformEvent
	WantsKeyboard bool
	CurrentText   string
}
