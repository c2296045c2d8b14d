package parser

import "strings"

// Outline markup markers.
const (
	markIndent       = "\t"
	markOpener       = "- "
	markOpenerBare   = "-"
	markContinuation = "  "
	markFence        = "```"
	markDirOpen      = "#+BEGIN_"
	markDirClose     = "#+END_"
	markProperty     = ":: "
)

// line is one classified source line. depth is the depth the indentation
// claims: one level per leading tab, plus one for carrying a block marker.
// Lines without any marker (the unbulleted head of a file) claim depth 0.
type line struct {
	content string // text minus indentation and block marker
	depth   int
	opener  bool // starts a new block
}

func parseLine(raw string) line {
	rest := strings.TrimLeft(raw, markIndent)
	depth := len(raw) - len(rest)
	switch {
	case rest == markOpenerBare:
		return line{depth: depth + 1, opener: true}
	case strings.HasPrefix(rest, markOpener):
		return line{content: rest[len(markOpener):], depth: depth + 1, opener: true}
	case strings.HasPrefix(rest, markContinuation):
		return line{content: rest[len(markContinuation):], depth: depth + 1}
	default:
		return line{content: rest, depth: depth}
	}
}

// isFence reports a code fence toggle line.
func (l line) isFence() bool {
	return strings.HasPrefix(l.content, markFence)
}

// isProperty reports a key:: value line. Fence lines are never properties;
// suppression of properties inside an open fence is block-level state.
func (l line) isProperty() bool {
	return strings.Contains(l.content, markProperty) && !l.isFence()
}

// directiveOpen returns the control token of a #+BEGIN_X line. Arguments
// after the token (as in "#+BEGIN_SRC go") are ignored.
func (l line) directiveOpen() (string, bool) {
	return directiveToken(l.content, markDirOpen)
}

// directiveClose returns the control token of a #+END_X line.
func (l line) directiveClose() (string, bool) {
	return directiveToken(l.content, markDirClose)
}

func directiveToken(content, prefix string) (string, bool) {
	after, ok := strings.CutPrefix(content, prefix)
	if !ok {
		return "", false
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
