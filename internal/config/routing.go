// Package config loads gancho's routing tables and operator settings.
//
// Routing tables are re-read from disk on every dispatch so that edits take
// effect on the very next event without restarting the host. Parsing keeps
// the declaration order of pattern maps: patterns contribute their hooks in
// the order the operator wrote them.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"gancho/internal/domain"
)

// HookDefinition is one named entry of the routing file's optional "hooks"
// block. Every field is optional; a definition adds execution details to an
// identifier but is not required for the identifier to be routable.
type HookDefinition struct {
	Command  string          `json:"command,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
	Files    StringArray     `json:"files,omitempty"`
	Timeout  int             `json:"timeout,omitempty"` // seconds, capped by the hard ceiling
	Disabled bool            `json:"disabled,omitempty"`
}

// StringArray supports both "pattern" and ["pattern", ...] in JSON
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to single string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str != "" {
		*sa = []string{str}
	}
	return nil
}

// RouteNode is one level of the routing tree. Exactly one field is set:
// Hooks for the flat-list form, Entries for the map form. Entries keep the
// order they were declared in.
type RouteNode struct {
	Hooks   []string
	Entries []RouteEntry
}

// RouteEntry is one key of a map-form node. Directly under an event type
// the key is an exact tool-name matcher for action events; everywhere else
// it is a regular expression over the event subject. Regex is nil when the
// key does not compile as a regex, which still leaves it usable for exact
// matching.
type RouteEntry struct {
	Key   string
	Regex *regexp.Regexp
	Node  *RouteNode
}

// RoutingTable is the routing configuration for one dispatch: event type to
// routing node, plus the optional named hook definitions. Tables are built
// fresh per dispatch and never cached.
type RoutingTable struct {
	Version     int
	Definitions map[string]HookDefinition
	Routes      map[domain.EventType]*RouteNode

	// Path is the file this table was parsed from.
	Path string

	// Warnings collects non-fatal shape problems (invalid patterns, unknown
	// keys, misshapen entries) for the caller to surface. They never fail
	// the parse: one bad entry must not take the whole table down.
	Warnings []string
}

// Route returns the routing node for an event type, nil when the type has
// no entry.
func (t *RoutingTable) Route(event domain.EventType) *RouteNode {
	return t.Routes[event]
}

// Definition returns the named hook definition, nil when the table carries
// none. The copy keeps callers from mutating the table.
func (t *RoutingTable) Definition(name string) *HookDefinition {
	if def, ok := t.Definitions[name]; ok {
		return &def
	}
	return nil
}

// HookNames returns every hook identifier the table can route to, in
// declaration order with duplicates removed.
func (t *RoutingTable) HookNames() []string {
	var names []string
	seen := make(map[string]bool)

	var walk func(*RouteNode)
	walk = func(n *RouteNode) {
		if n == nil {
			return
		}
		for _, name := range n.Hooks {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, entry := range n.Entries {
			walk(entry.Node)
		}
	}

	for _, event := range domain.EventTypes {
		walk(t.Routes[event])
	}
	return names
}

func (t *RoutingTable) warnf(format string, args ...any) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
}

// ParseRoutingTable parses one routing document. Only JSON syntax errors
// and a non-object top level are fatal; everything else degrades to a
// warning so a typo in one entry cannot disable the rest of the table.
func ParseRoutingTable(data []byte) (*RoutingTable, error) {
	table := &RoutingTable{
		Definitions: make(map[string]HookDefinition),
		Routes:      make(map[domain.EventType]*RouteNode),
	}

	// encoding/json decodes objects into unordered maps, and pattern order
	// is contractual here, so the document is walked token by token.
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("routing table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("routing table: top level must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("routing table: %w", err)
		}
		key := keyTok.(string)

		switch {
		case key == "version":
			if err := dec.Decode(&table.Version); err != nil {
				return nil, fmt.Errorf("routing table: version: %w", err)
			}
		case key == "hooks":
			if err := table.parseDefinitions(dec); err != nil {
				return nil, fmt.Errorf("routing table: hooks: %w", err)
			}
		case domain.ValidEventType(key):
			node, err := table.parseNode(dec, 0, key)
			if err != nil {
				return nil, fmt.Errorf("routing table: %s: %w", key, err)
			}
			if node != nil {
				table.Routes[domain.EventType(key)] = node
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("routing table: %s: %w", key, err)
			}
			table.warnf("unknown routing key %q ignored", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("routing table: %w", err)
	}
	return table, nil
}

// parseDefinitions reads the "hooks" block. A definition that does not
// unmarshal is dropped with a warning; the others stay usable.
func (t *RoutingTable) parseDefinitions(dec *json.Decoder) error {
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	for name, doc := range raw {
		var def HookDefinition
		if err := json.Unmarshal(doc, &def); err != nil {
			t.warnf("hook definition %q ignored: %v", name, err)
			continue
		}
		t.Definitions[name] = def
	}
	return nil
}

// parseNode reads one routing value: a flat hook list or a map of nested
// nodes. depth counts map levels below the event type; pattern lists live
// at most two levels down, anything deeper is dropped with a warning.
// A nil node with a nil error means the value was misshapen and skipped.
func (t *RoutingTable) parseNode(dec *json.Decoder, depth int, where string) (*RouteNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// A scalar where a hook list or matcher map belongs.
		t.warnf("%s: expected a hook list or matcher map, got %v", where, tok)
		return nil, nil
	}

	switch delim {
	case '[':
		node := &RouteNode{Hooks: []string{}}
		for dec.More() {
			item, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := item.(string)
			if !ok {
				t.warnf("%s: hook identifiers must be strings, got %v", where, item)
				continue
			}
			node.Hooks = append(node.Hooks, name)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return node, nil

	case '{':
		if depth >= 2 {
			// Patterns map to hook lists; there is no routable shape below
			// that.
			if err := drainValue(dec); err != nil {
				return nil, err
			}
			t.warnf("%s: nesting below a pattern map is not supported", where)
			return nil, nil
		}
		node := &RouteNode{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key := keyTok.(string)
			child, err := t.parseNode(dec, depth+1, where+"."+key)
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			entry := RouteEntry{Key: key, Node: child}
			if re, reErr := regexp.Compile(key); reErr == nil {
				entry.Regex = re
			} else if depth >= 1 {
				// Keys one map down are always patterns; an uncompilable
				// one can never match. Top-level keys still work as exact
				// tool names, so those stay quiet here.
				t.warnf("%s: invalid pattern %q skipped: %v", where, key, reErr)
			}
			node.Entries = append(node.Entries, entry)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return node, nil
	}

	// Unreachable: Token never yields a closing delimiter first.
	return nil, fmt.Errorf("%s: unexpected token %v", where, delim)
}

// drainValue consumes the remainder of a compound value whose opening
// delimiter has already been read.
func drainValue(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
