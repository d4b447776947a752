// Package input holds backend-neutral window and device events.
package input

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseWheel
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyQ
	KeyEscape
	KeySpace
	KeyP
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Digit returns the number on a numeric key.
func (k Key) Digit() (int, bool) {
	if k < Key0 || k > Key9 {
		return 0, false
	}
	return int(k - Key0), true
}

// DigitKey returns the key for digit d (0-9).
func DigitKey(d int) Key {
	if d < 0 || d > 9 {
		return KeyUnknown
	}
	return Key0 + Key(d)
}

// Buttons is a mask of pressed mouse buttons.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonMiddle
	ButtonRight
)

// Has reports whether every button in b is pressed.
func (m Buttons) Has(b Buttons) bool {
	return m&b == b
}

// Event is a processed input event.
type Event struct {
	Type    EventType
	Key     Key
	Width   int // resize
	Height  int
	MouseX  int
	MouseY  int
	DX      int // relative mouse motion
	DY      int
	Buttons Buttons // held during motion
	Wheel   int     // positive away from the user
	Ctrl    bool    // control held during a wheel event
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset clears the events of the previous frame.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push appends an event.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events collected since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// QuitRequested reports whether the window was asked to close this frame.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
