package domain

// CommandType classifies what a key press or click asks for.
type CommandType int

const (
	CommandNone CommandType = iota
	CommandAdvance
	CommandBack
	CommandReset
	CommandTogglePlay
	CommandToggleDetail // visual <-> detailed, divergence screen
	CommandToggleLayout // single <-> compare, visualizer screen
	CommandSelectScript // payload: script id, visualizer screen
	CommandSwitchScreen // visualizer <-> divergence
	CommandJump         // payload: step index, from a progress click
	CommandTogglePanel  // payload: panel key, from a header click
	CommandDismissIntro // leave the intro screen
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandAdvance:
		return "advance"
	case CommandBack:
		return "back"
	case CommandReset:
		return "reset"
	case CommandTogglePlay:
		return "toggle_play"
	case CommandToggleDetail:
		return "toggle_detail"
	case CommandToggleLayout:
		return "toggle_layout"
	case CommandSelectScript:
		return "select_script"
	case CommandSwitchScreen:
		return "switch_screen"
	case CommandJump:
		return "jump"
	case CommandTogglePanel:
		return "toggle_panel"
	case CommandDismissIntro:
		return "dismiss_intro"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// Command is a parsed user action.
type Command struct {
	Type    CommandType
	Payload string // script id or panel key
	Step    int    // jump target
}
