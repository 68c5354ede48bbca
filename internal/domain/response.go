package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ControlResponse is the structured document a hook may print on stdout to
// steer the host. Absent fields mean "no opinion": continue defaults to
// true, decision to approval.
type ControlResponse struct {
	Continue       *bool  `json:"continue,omitempty"`
	Decision       string `json:"decision,omitempty"` // "approve" or "block"
	Reason         string `json:"reason,omitempty"`
	SuppressOutput bool   `json:"suppressOutput,omitempty"`
	StopReason     string `json:"stopReason,omitempty"`
	SystemMessage  string `json:"systemMessage,omitempty"`
}

// Blocks reports whether the response demands the host action be stopped.
func (r *ControlResponse) Blocks() bool {
	if r.Continue != nil && !*r.Continue {
		return true
	}
	return r.Decision == "block"
}

// BlockReason returns the reason text to surface for a blocking response.
func (r *ControlResponse) BlockReason() string {
	if r.Reason != "" {
		return r.Reason
	}
	if r.StopReason != "" {
		return r.StopReason
	}
	return DefaultBlockReason
}

// ParseControlResponse extracts a ControlResponse from hook stdout. The
// whole document is tried first; failing that, each line is tried on its
// own, so hooks may interleave free-text diagnostics with the one structured
// line.
func ParseControlResponse(stdout []byte) (*ControlResponse, bool) {
	if resp, ok := tryDecodeResponse(bytes.TrimSpace(stdout)); ok {
		return resp, true
	}
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		if resp, ok := tryDecodeResponse(bytes.TrimSpace(line)); ok {
			return resp, true
		}
	}
	return nil, false
}

func tryDecodeResponse(doc []byte) (*ControlResponse, bool) {
	// Only a JSON object can be a control document; bare strings, numbers,
	// arrays and null are diagnostics.
	if len(doc) == 0 || doc[0] != '{' {
		return nil, false
	}
	var resp ControlResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// DiagnosticText returns the part of hook stdout that is not a control
// document: free-text lines a hook printed for the operator. Empty when the
// whole output was the control document or there was no output.
func DiagnosticText(stdout []byte) string {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return ""
	}
	if _, ok := tryDecodeResponse(trimmed); ok {
		return ""
	}

	var kept []string
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		clean := bytes.TrimSpace(line)
		if len(clean) == 0 {
			continue
		}
		if _, ok := tryDecodeResponse(clean); ok {
			continue
		}
		kept = append(kept, string(line))
	}
	return strings.Join(kept, "\n")
}
