// Package command defines the unit of work exchanged between the network
// goroutine and the UI loop, together with the error taxonomy used to report
// execution failures back to clients.
package command

// Kind identifies the action a command asks the UI to perform.
type Kind int

const (
	Click Kind = iota
	LongPress
	Swipe
	Key
	GetText
	SetText
	Screenshot
	Wait
	ClickAt
	MouseMove
	Drag
)

// MaxTextLen bounds the text payload of set_text and get_state results.
const MaxTextLen = 1023

var kindNames = map[Kind]string{
	Click:      "click",
	LongPress:  "longpress",
	Swipe:      "swipe",
	Key:        "key",
	GetText:    "get_state",
	SetText:    "set_text",
	Screenshot: "screenshot",
	Wait:       "wait",
	ClickAt:    "click_at",
	MouseMove:  "mouse_move",
	Drag:       "drag",
}

var kindsByName = func() map[string]Kind {
	out := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		out[name] = k
	}
	return out
}()

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Point is a display coordinate in pixels.
type Point struct {
	X int
	Y int
}

// Command is a single request for the UI loop. Only the fields relevant to
// Kind are meaningful.
type Command struct {
	Kind     Kind
	WidgetID string
	// Duration is in milliseconds for LongPress and Wait.
	Duration int
	From     Point
	To       Point
	KeyCode  uint32
	Text     string

	Result Result
}

// Result is written by the UI loop while executing a command.
type Result struct {
	Err       error
	Text      string
	HasText   bool
	Data      []byte
	Width     int
	Height    int
	Completed bool
}

// OK reports whether the command executed without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Fail records err on the result.
func (c *Command) Fail(err error) {
	c.Result.Err = err
}

// SetResultText stores text as the command's textual result, bounded to
// MaxTextLen bytes.
func (c *Command) SetResultText(text string) {
	c.Result.Text = TruncateText(text)
	c.Result.HasText = true
}

// TruncateText bounds text to MaxTextLen bytes without splitting a UTF-8
// sequence.
func TruncateText(text string) string {
	if len(text) <= MaxTextLen {
		return text
	}
	cut := MaxTextLen
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
