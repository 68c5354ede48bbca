package services

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"gancho/internal/config"
	"gancho/internal/domain"
	"gancho/internal/logging"
)

// Matcher selects which hooks run for an event, walking the routing table
// and then applying definition-level gates. It holds no state; everything
// comes in per call.
type Matcher struct{}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns the hook identifiers routed to the event, in routing order,
// deduplicated keeping the first occurrence. A map directly under an action
// event selects by exact tool name; everywhere else map keys are regex
// patterns over the event subject, and every matching pattern contributes
// (union, not first match).
func (m *Matcher) Match(event *domain.Event, table *config.RoutingTable) []string {
	node := table.Route(event.Name)
	if node == nil {
		return nil
	}

	var names []string
	switch {
	case node.Hooks != nil:
		names = node.Hooks
	case event.IsAction():
		for _, entry := range node.Entries {
			if entry.Key != event.ToolName {
				continue
			}
			names = append(names, m.collect(event, entry.Node)...)
		}
	default:
		names = m.patternUnion(event.Subject(), node)
	}

	return dedupe(names)
}

// collect resolves the node under a tool matcher: either a flat list or a
// pattern map over the event subject.
func (m *Matcher) collect(event *domain.Event, node *config.RouteNode) []string {
	if node.Hooks != nil {
		return node.Hooks
	}
	return m.patternUnion(event.Subject(), node)
}

// patternUnion gathers the hooks of every pattern matching subject,
// concatenated in declaration order.
func (m *Matcher) patternUnion(subject string, node *config.RouteNode) []string {
	var names []string
	for _, entry := range node.Entries {
		if entry.Regex == nil {
			// Key never compiled; it can only ever be an exact matcher
			logging.Logger.Warn("Skipping unusable pattern", "pattern", entry.Key)
			continue
		}
		if !entry.Regex.MatchString(subject) {
			continue
		}
		if entry.Node.Hooks != nil {
			names = append(names, entry.Node.Hooks...)
		}
	}
	return names
}

// FilterHooks applies definition-level gates to matched identifiers:
// disabled definitions are dropped, and for write events a definition with
// files globs keeps the hook only when the written path matches. Identifiers
// without a definition pass through untouched.
func (m *Matcher) FilterHooks(event *domain.Event, names []string, table *config.RoutingTable, root string) []string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		def := table.Definition(name)
		if def == nil {
			kept = append(kept, name)
			continue
		}
		if def.Disabled {
			logging.Logger.Debug("Hook disabled, skipping", "hook", name)
			continue
		}
		if len(def.Files) > 0 && event.IsWrite() && !matchesFileGlobs(def.Files, root, event.FilePath()) {
			logging.Logger.Debug("Hook file globs do not match, skipping",
				"hook", name,
				"path", event.FilePath())
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

// matchesFileGlobs tests path against each glob, both as a root-relative
// path and as a bare basename, so "*.lock" and "src/**/*.go" styles both
// work the way operators expect.
func matchesFileGlobs(globs []string, root, path string) bool {
	candidates := []string{filepath.Base(path)}
	if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
		candidates = append(candidates, rel)
	} else if !filepath.IsAbs(path) {
		candidates = append(candidates, path)
	}

	for _, glob := range globs {
		for _, candidate := range candidates {
			ok, err := doublestar.Match(glob, filepath.ToSlash(candidate))
			if err != nil {
				logging.Logger.Debug("Invalid file glob", "glob", glob, "error", err)
				break
			}
			if ok {
				return true
			}
		}
	}
	return false
}

// dedupe keeps the first occurrence of each identifier.
func dedupe(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
