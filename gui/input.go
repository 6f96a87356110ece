package gui

// Key enumerates the logical keys the GUI reacts to. KeyNone is reserved so
// a zero value always means "no key".
type Key int

const (
	KeyNone Key = iota
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
	keyCount // sentinel, keep last
)

// PointerButton identifies a pointer/mouse button.
type PointerButton int

const (
	PointerPrimary PointerButton = iota
	PointerSecondary
	PointerMiddle
	PointerExtra1
	PointerExtra2
	pointerButtonCount
)

// Modifiers is the keyboard modifier state attached to events and frames.
type Modifiers struct {
	Alt     bool
	Ctrl    bool
	Shift   bool
	MacCmd  bool
	Command bool
}

// Event model (tagged union, marker-method style).
type Event interface{ isEvent() }

type EventCopy struct{}
type EventCut struct{}
type EventPaste struct{ Text string }
type EventText struct{ Text string }

type EventKey struct {
	Key     Key
	Pressed bool
	Mods    Modifiers
}

type EventPointerMoved struct{ Pos Pos2 }

type EventPointerButton struct {
	Pos     Pos2
	Button  PointerButton
	Pressed bool
	Mods    Modifiers
}

type EventPointerGone struct{}
type EventScroll struct{ Delta Vec2 }
type EventZoom struct{ Factor float32 }
type EventCompositionStart struct{}
type EventCompositionUpdate struct{ Text string }

func (EventCopy) isEvent()              {}
func (EventCut) isEvent()               {}
func (EventPaste) isEvent()             {}
func (EventText) isEvent()              {}
func (EventKey) isEvent()               {}
func (EventPointerMoved) isEvent()      {}
func (EventPointerButton) isEvent()     {}
func (EventPointerGone) isEvent()       {}
func (EventScroll) isEvent()            {}
func (EventZoom) isEvent()              {}
func (EventCompositionStart) isEvent()  {}
func (EventCompositionUpdate) isEvent() {}

// RawInput is the per-frame input snapshot handed to BeginFrame. Optional
// fields are pointers: nil means "no change from the previous frame", never
// "reset to the zero value".
type RawInput struct {
	ScreenRect     *Rect
	HasFocus       bool
	Time           *float64
	PixelsPerPoint *float32
	MaxTextureSide *int
	Modifiers      *Modifiers
	PredictedDT    float32
	Events         []Event
}
