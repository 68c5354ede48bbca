package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_ValidEvents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EventType
	}{
		{"pre tool use", `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`, PreToolUse},
		{"post tool use", `{"hook_event_name":"PostToolUse","tool_name":"Write","tool_input":{"file_path":"a.go"}}`, PostToolUse},
		{"stop", `{"hook_event_name":"Stop","session_id":"abc","stop_hook_active":false}`, Stop},
		{"subagent stop", `{"hook_event_name":"SubagentStop","session_id":"abc"}`, SubagentStop},
		{"notification", `{"hook_event_name":"Notification","message":"waiting for input"}`, Notification},
		{"user prompt", `{"hook_event_name":"UserPromptSubmit","prompt":"do the thing"}`, UserPromptSubmit},
		{"session start", `{"hook_event_name":"SessionStart","source":"startup"}`, SessionStart},
		{"pre compact", `{"hook_event_name":"PreCompact","trigger":"auto"}`, PreCompact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Name)
		})
	}
}

func TestParseEvent_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", `this is not json`, ErrMalformedEvent},
		{"json array", `[1,2,3]`, ErrMalformedEvent},
		{"json null", `null`, ErrMalformedEvent},
		{"empty object", `{}`, ErrMalformedEvent},
		{"missing name", `{"tool_name":"Bash"}`, ErrMalformedEvent},
		{"unknown event", `{"hook_event_name":"TeaBreak"}`, ErrUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			assert.Nil(t, ev)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEvent_KeepsRawBytes(t *testing.T) {
	// Fields this version does not model must survive the round trip to
	// hook stdin untouched.
	raw := `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"},"permission_mode":"acceptEdits","custom":{"a":[1,2]}}`

	ev, err := ParseEvent([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, string(ev.Raw()))
}

func TestEvent_ShortCircuits(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"stop with active hook", `{"hook_event_name":"Stop","stop_hook_active":true}`, true},
		{"subagent stop with active hook", `{"hook_event_name":"SubagentStop","stop_hook_active":true}`, true},
		{"stop without active hook", `{"hook_event_name":"Stop"}`, false},
		{"pre tool use never short-circuits", `{"hook_event_name":"PreToolUse","stop_hook_active":true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.ShortCircuits())
		})
	}
}

func TestEvent_Subject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"bash uses the command line",
			`{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"npm install left-pad@1.0.0"}}`,
			"npm install left-pad@1.0.0",
		},
		{
			"write uses the file path",
			`{"hook_event_name":"PreToolUse","tool_name":"Write","tool_input":{"file_path":"internal/app/main.go","content":"package main"}}`,
			"internal/app/main.go",
		},
		{
			"edit uses the file path",
			`{"hook_event_name":"PostToolUse","tool_name":"Edit","tool_input":{"file_path":"README.md","new_string":"x"}}`,
			"README.md",
		},
		{
			"other tools use the raw payload",
			`{"hook_event_name":"PreToolUse","tool_name":"WebFetch","tool_input":{"url":"https://example.com"}}`,
			`{"url":"https://example.com"}`,
		},
		{
			"notification uses the message",
			`{"hook_event_name":"Notification","message":"needs permission"}`,
			"needs permission",
		},
		{
			"prompt event uses the prompt",
			`{"hook_event_name":"UserPromptSubmit","prompt":"refactor"}`,
			"refactor",
		},
		{
			"stop has no subject",
			`{"hook_event_name":"Stop","session_id":"s"}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Subject())
		})
	}
}

func TestEvent_Content(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"write content",
			`{"hook_event_name":"PreToolUse","tool_name":"Write","tool_input":{"file_path":"a.go","content":"package a"}}`,
			"package a",
		},
		{
			"edit new string",
			`{"hook_event_name":"PreToolUse","tool_name":"Edit","tool_input":{"file_path":"a.go","old_string":"x","new_string":"y"}}`,
			"y",
		},
		{
			"multi edit joins replacements",
			`{"hook_event_name":"PreToolUse","tool_name":"MultiEdit","tool_input":{"file_path":"a.go","edits":[{"new_string":"one"},{"new_string":"two"}]}}`,
			"one\ntwo",
		},
		{
			"notebook edit new source",
			`{"hook_event_name":"PreToolUse","tool_name":"NotebookEdit","tool_input":{"file_path":"a.ipynb","new_source":"print(1)"}}`,
			"print(1)",
		},
		{
			"non-write events have no content",
			`{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Content())
		})
	}
}

func TestEvent_Classification(t *testing.T) {
	write, err := ParseEvent([]byte(`{"hook_event_name":"PreToolUse","tool_name":"Write","tool_input":{"file_path":"a"}}`))
	require.NoError(t, err)
	assert.True(t, write.IsAction())
	assert.True(t, write.IsWrite())
	assert.False(t, write.IsFinished())

	bash, err := ParseEvent([]byte(`{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`))
	require.NoError(t, err)
	assert.True(t, bash.IsAction())
	assert.False(t, bash.IsWrite())

	stop, err := ParseEvent([]byte(`{"hook_event_name":"Stop"}`))
	require.NoError(t, err)
	assert.False(t, stop.IsAction())
	assert.True(t, stop.IsFinished())
}
