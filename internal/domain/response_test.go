package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseControlResponse_WholeDocument(t *testing.T) {
	stdout := []byte(`  {"decision":"block","reason":"tests failed"}  ` + "\n")

	resp, ok := ParseControlResponse(stdout)
	require.True(t, ok)
	assert.Equal(t, "block", resp.Decision)
	assert.Equal(t, "tests failed", resp.Reason)
}

func TestParseControlResponse_ScansPastDiagnostics(t *testing.T) {
	// Hooks commonly print progress lines before the final document.
	stdout := []byte("running linters...\nall good\n{\"continue\": false, \"stopReason\": \"lint errors\"}\n")

	resp, ok := ParseControlResponse(stdout)
	require.True(t, ok)
	require.NotNil(t, resp.Continue)
	assert.False(t, *resp.Continue)
	assert.Equal(t, "lint errors", resp.StopReason)
}

func TestParseControlResponse_RejectsNonDocuments(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\t\n"},
		{"plain text", "looks fine to me"},
		{"json null", "null"},
		{"json array", `[{"decision":"block"}]`},
		{"json number", "42"},
		{"broken object", `{"decision":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, ok := ParseControlResponse([]byte(tt.stdout))
			assert.False(t, ok)
			assert.Nil(t, resp)
		})
	}
}

func TestParseControlResponse_FirstDocumentWins(t *testing.T) {
	stdout := []byte(`{"decision":"approve"}` + "\n" + `{"decision":"block","reason":"second thoughts"}` + "\n")

	resp, ok := ParseControlResponse(stdout)
	require.True(t, ok)
	assert.Equal(t, "approve", resp.Decision)
}

func TestControlResponse_Blocks(t *testing.T) {
	falsev := false
	truev := true

	tests := []struct {
		name string
		resp ControlResponse
		want bool
	}{
		{"continue false blocks", ControlResponse{Continue: &falsev}, true},
		{"decision block blocks", ControlResponse{Decision: "block"}, true},
		{"both set blocks", ControlResponse{Continue: &falsev, Decision: "block"}, true},
		{"continue true allows", ControlResponse{Continue: &truev}, false},
		{"decision approve allows", ControlResponse{Decision: "approve"}, false},
		{"empty response allows", ControlResponse{}, false},
		{"continue true beats nothing", ControlResponse{Continue: &truev, Decision: "approve"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Blocks())
		})
	}
}

func TestControlResponse_BlockReason(t *testing.T) {
	tests := []struct {
		name string
		resp ControlResponse
		want string
	}{
		{"reason preferred", ControlResponse{Reason: "nope", StopReason: "other"}, "nope"},
		{"stop reason as fallback", ControlResponse{StopReason: "stopped"}, "stopped"},
		{"default when empty", ControlResponse{}, DefaultBlockReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.BlockReason())
		})
	}
}
