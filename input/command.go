package input

// Command is a normalized reader action.
type Command int

const (
	PrevPage Command = iota
	NextPage
	TogglePause
	Close
	ZoomIn
	ZoomOut
	ZoomReset
	ToggleFullscreen
	TogglePacer
	SpeedUp
	SpeedDown
	ResetCursor
)

var commandNames = [...]string{
	PrevPage:         "prev-page",
	NextPage:         "next-page",
	TogglePause:      "toggle-pause",
	Close:            "close",
	ZoomIn:           "zoom-in",
	ZoomOut:          "zoom-out",
	ZoomReset:        "zoom-reset",
	ToggleFullscreen: "toggle-fullscreen",
	TogglePacer:      "toggle-pacer",
	SpeedUp:          "speed-up",
	SpeedDown:        "speed-down",
	ResetCursor:      "reset-cursor",
}

// String returns a string representation of the command
func (c Command) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// Key is a keyboard key the reader responds to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEscape
	KeyPlus
	KeyMinus
	KeyZero
	KeyF
	KeyP
	KeyR
)

var keyCommands = map[Key]Command{
	KeyLeft:   PrevPage,
	KeyRight:  NextPage,
	KeyUp:     SpeedUp,
	KeyDown:   SpeedDown,
	KeySpace:  TogglePause,
	KeyEscape: Close,
	KeyPlus:   ZoomIn,
	KeyMinus:  ZoomOut,
	KeyZero:   ZoomReset,
	KeyF:      ToggleFullscreen,
	KeyP:      TogglePacer,
	KeyR:      ResetCursor,
}

// CommandForKey returns the command bound to k.
func CommandForKey(k Key) (Command, bool) {
	c, ok := keyCommands[k]
	return c, ok
}
