// Package rules renders the routing-rule document pasted into the edge
// router's rule editor.
//
// Each materialized group gets one rule block pairing a match condition
// over request host and path with a target-construction expression. The
// literal directory prefix, random hex digit count, and extension embedded
// in every target expression must match the materialized output tree
// character for character; the build threads one width value from the
// keyspace sizer into both this package and the materializer.
package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"slotter/internal/config"
	"slotter/internal/inventory"
)

// Spec carries everything rule rendering needs. Groups lists the
// materialized groups in output order; skipped empty groups must not
// appear, so their request paths fall through to the fallback block.
type Spec struct {
	Domain    string
	BaseURL   string
	Mode      config.Mode
	Width     int
	Extension string
	Groups    []inventory.Group
}

// requestPath returns the logical request path routed to a group. The all
// group has no path of its own; it is the fallback for everything else.
func requestPath(g inventory.Group) string {
	switch g {
	case inventory.GroupLandscape:
		return "/l"
	case inventory.GroupPortrait:
		return "/p"
	default:
		return ""
	}
}

// suffix returns the literal file suffix targets carry in the given mode.
func suffix(mode config.Mode, extension string) string {
	if mode == config.ModeIndirect {
		return ".json"
	}
	return extension
}

// TargetExpression builds the target-construction expression for one group.
// The runtime-random portion is a substring of uuidv4(cf.random_seed) of
// exactly width hex digits, so every draw lands on an existing slot file.
func TargetExpression(spec Spec, group inventory.Group) string {
	return fmt.Sprintf("concat(%q, substring(uuidv4(cf.random_seed), 0, %d), %q)",
		spec.BaseURL+"/"+string(group)+"/",
		spec.Width,
		suffix(spec.Mode, spec.Extension))
}

// MatchExpression builds the match condition for one group. For the all
// group it is the logical negation of every specific group's condition, so
// exactly one rule matches any request path on the configured host.
func MatchExpression(spec Spec, group inventory.Group) string {
	if group != inventory.GroupAll {
		return fmt.Sprintf("(http.host eq %q and http.request.uri.path eq %q)",
			spec.Domain, requestPath(group))
	}

	terms := []string{fmt.Sprintf("http.host eq %q", spec.Domain)}
	for _, g := range spec.Groups {
		if path := requestPath(g); path != "" {
			terms = append(terms, fmt.Sprintf("http.request.uri.path ne %q", path))
		}
	}
	return "(" + strings.Join(terms, " and ") + ")"
}

// Render produces the full rule document.
func Render(spec Spec) (string, error) {
	if spec.Width < 1 {
		return "", fmt.Errorf("rules: width %d leaves no random digits", spec.Width)
	}
	if len(spec.Groups) == 0 {
		return "", fmt.Errorf("rules: no materialized groups")
	}
	if strings.TrimSpace(spec.Domain) == "" {
		return "", fmt.Errorf("rules: domain is required")
	}

	action := "Rewrite"
	if spec.BaseURL != "" {
		action = "Redirect"
	}

	title := cases.Title(language.English)
	var b strings.Builder
	fmt.Fprintf(&b, "# Routing rules for %s (%s mode, width %d)\n", spec.Domain, spec.Mode, spec.Width)
	b.WriteString("# Paste each block into the router's rule editor in order.\n")

	for _, group := range spec.Groups {
		fmt.Fprintf(&b, "\n--- Rule: Random Image - %s ---\n", title.String(string(group)))
		b.WriteString("Match expression:\n")
		b.WriteString(MatchExpression(spec, group))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s expression:\n", action)
		b.WriteString(TargetExpression(spec, group))
		b.WriteByte('\n')
	}

	return b.String(), nil
}
