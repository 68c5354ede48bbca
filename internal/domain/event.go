package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventType identifies a host lifecycle event.
type EventType string

// Event types emitted by the host agent.
const (
	PreToolUse       EventType = "PreToolUse"
	PostToolUse      EventType = "PostToolUse"
	Stop             EventType = "Stop"
	SubagentStop     EventType = "SubagentStop"
	Notification     EventType = "Notification"
	UserPromptSubmit EventType = "UserPromptSubmit"
	SessionStart     EventType = "SessionStart"
	PreCompact       EventType = "PreCompact"
)

// EventTypes lists every recognized event type in a stable order.
var EventTypes = []EventType{
	PreToolUse,
	PostToolUse,
	Stop,
	SubagentStop,
	Notification,
	UserPromptSubmit,
	SessionStart,
	PreCompact,
}

var knownEvents = func() map[EventType]bool {
	m := make(map[EventType]bool, len(EventTypes))
	for _, t := range EventTypes {
		m[t] = true
	}
	return m
}()

// ValidEventType reports whether s names a recognized event type.
func ValidEventType(s string) bool {
	return knownEvents[EventType(s)]
}

// writeTools are the host tools that create or modify a file. Events
// carrying them get file-path matching semantics instead of payload-text
// matching.
var writeTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// Event is one host lifecycle notification. It is built once per dispatch
// and never mutated afterwards.
type Event struct {
	Name           EventType       `json:"hook_event_name"`
	SessionID      string          `json:"session_id,omitempty"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
	Cwd            string          `json:"cwd,omitempty"`
	ToolName       string          `json:"tool_name,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	ToolResponse   json.RawMessage `json:"tool_response,omitempty"`
	StopHookActive bool            `json:"stop_hook_active,omitempty"`
	Message        string          `json:"message,omitempty"`
	Prompt         string          `json:"prompt,omitempty"`
	Source         string          `json:"source,omitempty"`
	Trigger        string          `json:"trigger,omitempty"`

	raw []byte
}

// ParseEvent builds an Event from one host document. It fails on anything
// that is not a JSON object with a recognized hook_event_name: the
// dispatcher cannot guess the host's intent from a broken event, so this is
// the one deliberately fatal input path.
func ParseEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Name == "" {
		return nil, fmt.Errorf("%w: missing hook_event_name", ErrMalformedEvent)
	}
	if !knownEvents[ev.Name] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	ev.raw = append([]byte(nil), raw...)
	return &ev, nil
}

// Raw returns the exact bytes this event was parsed from. Hooks receive
// these bytes verbatim, so no field the host sent is lost across the pipe
// boundary, including fields this version does not model.
func (e *Event) Raw() []byte { return e.raw }

// IsAction reports whether the event wraps a host tool invocation.
func (e *Event) IsAction() bool {
	return e.Name == PreToolUse || e.Name == PostToolUse
}

// IsFinished reports whether the event marks the end of a host task.
func (e *Event) IsFinished() bool {
	return e.Name == Stop || e.Name == SubagentStop
}

// IsWrite reports whether the event is a tool invocation that creates or
// modifies a file.
func (e *Event) IsWrite() bool {
	return e.IsAction() && writeTools[e.ToolName]
}

// ShortCircuits reports whether the dispatch must return Allow immediately:
// a finished event raised while its own stop hooks are running would
// otherwise re-trigger them forever.
func (e *Event) ShortCircuits() bool {
	return e.IsFinished() && e.StopHookActive
}

// toolArgs is the subset of tool_input the dispatcher itself understands.
// Everything else stays opaque and travels to hooks untouched via Raw.
type toolArgs struct {
	FilePath  string `json:"file_path"`
	Content   string `json:"content"`
	NewString string `json:"new_string"`
	NewSource string `json:"new_source"`
	Command   string `json:"command"`
	Edits     []struct {
		NewString string `json:"new_string"`
	} `json:"edits"`
}

func (e *Event) args() toolArgs {
	var a toolArgs
	if len(e.ToolInput) > 0 {
		// Best effort: an unreadable payload just means empty fields
		_ = json.Unmarshal(e.ToolInput, &a)
	}
	return a
}

// FilePath returns the target path of a write event, "" for anything else.
func (e *Event) FilePath() string {
	if !e.IsWrite() {
		return ""
	}
	return e.args().FilePath
}

// Content returns the text a write event would put into the file: the whole
// body for full writes, the replacement text for edits, joined replacement
// texts for multi-edits.
func (e *Event) Content() string {
	if !e.IsWrite() {
		return ""
	}
	a := e.args()
	switch {
	case a.Content != "":
		return a.Content
	case a.NewString != "":
		return a.NewString
	case a.NewSource != "":
		return a.NewSource
	}
	if len(a.Edits) > 0 {
		parts := make([]string, 0, len(a.Edits))
		for _, ed := range a.Edits {
			parts = append(parts, ed.NewString)
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// Subject returns the string routing patterns are matched against: the file
// path for write events, the command line for shell actions, the raw payload
// text for other actions, and the salient text field for the remaining
// types.
func (e *Event) Subject() string {
	switch {
	case e.IsWrite():
		return e.args().FilePath
	case e.IsAction() && e.ToolName == "Bash":
		return e.args().Command
	case e.IsAction():
		return string(e.ToolInput)
	}
	switch e.Name {
	case Notification:
		return e.Message
	case UserPromptSubmit:
		return e.Prompt
	case SessionStart:
		return e.Source
	case PreCompact:
		return e.Trigger
	}
	return ""
}
