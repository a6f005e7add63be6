package command

import "errors"

var (
	ErrNotFound         = errors.New("widget not found")
	ErrInvalidParam     = errors.New("invalid parameter")
	ErrMemory           = errors.New("out of memory")
	ErrNetwork          = errors.New("network error")
	ErrScreenshotFailed = errors.New("screenshot failed")
	ErrQueueFull        = errors.New("command queue full")
	ErrInvalidWidget    = errors.New("invalid widget")
	ErrEventFailed      = errors.New("event failed")
)

// Reason is the machine-readable error string carried in error responses.
type Reason string

const (
	ReasonInvalidJSON        Reason = "invalid_json"
	ReasonMissingID          Reason = "missing_id"
	ReasonInvalidCoordinates Reason = "invalid_coordinates"
	ReasonMissingParameters  Reason = "missing_parameters"
	ReasonInvalidKeyCode     Reason = "invalid_key_code"
	ReasonWidgetNotFound     Reason = "widget_not_found"
	ReasonUnknownCommand     Reason = "unknown_command"
	ReasonScreenshotFailed   Reason = "screenshot_failed"
	ReasonSwipeFailed        Reason = "swipe_failed"
	ReasonKeyEventFailed     Reason = "key_event_failed"
	ReasonClickFailed        Reason = "click_failed"
	ReasonMouseMoveFailed    Reason = "mouse_move_failed"
	ReasonDragFailed         Reason = "drag_failed"
	ReasonQueueFull          Reason = "queue_full"
	ReasonInvalidWidget      Reason = "invalid_widget"
	ReasonMemory             Reason = "memory_error"
	ReasonNetwork            Reason = "network_error"
)

// ReasonFor classifies an execution error for the given kind. Unclassified
// errors fall back to the kind's generic failure reason.
func ReasonFor(kind Kind, err error) Reason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return ReasonWidgetNotFound
	case errors.Is(err, ErrScreenshotFailed):
		return ReasonScreenshotFailed
	case errors.Is(err, ErrQueueFull):
		return ReasonQueueFull
	case errors.Is(err, ErrInvalidWidget):
		return ReasonInvalidWidget
	case errors.Is(err, ErrInvalidParam):
		return ReasonMissingParameters
	case errors.Is(err, ErrMemory):
		return ReasonMemory
	case errors.Is(err, ErrNetwork):
		return ReasonNetwork
	}
	return eventReason(kind)
}

func eventReason(kind Kind) Reason {
	switch kind {
	case Swipe:
		return ReasonSwipeFailed
	case Key:
		return ReasonKeyEventFailed
	case MouseMove:
		return ReasonMouseMoveFailed
	case Drag:
		return ReasonDragFailed
	case Screenshot:
		return ReasonScreenshotFailed
	case GetText, SetText:
		return ReasonInvalidWidget
	default:
		return ReasonClickFailed
	}
}
