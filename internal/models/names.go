package models

import (
	"path/filepath"
	"strings"
)

// NormalizeName maps a page name as written to its canonical identity:
// trimmed, case-folded, segmented on namespace separators with empty
// segments collapsed. Distinct spellings that normalize equal are the same
// Page; the engine favors identity over literal-string fidelity.
func NormalizeName(raw, separator string) string {
	if separator == "" {
		separator = "/"
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	if separator != "/" {
		s = strings.ReplaceAll(s, separator, "/")
	}
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return strings.Join(segs, separator)
}

// NamespaceParent returns the namespace prefix naming a page's parent, or ""
// for top-level pages. The argument must already be normalized.
func NamespaceParent(name, separator string) string {
	if separator == "" {
		separator = "/"
	}
	i := strings.LastIndex(name, separator)
	if i < 0 {
		return ""
	}
	return name[:i]
}

// ResourceKey maps a resource target as written to its canonical identity.
// Page names and resource paths stay disjoint identifier spaces regardless
// of spelling.
func ResourceKey(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	return strings.ToLower(s)
}

// PageNameFromPath derives the normalized page name for a note from its
// collection-relative path: extension dropped, directory segments and the
// triple-underscore filename convention both becoming namespace segments.
func PageNameFromPath(rel, separator string) string {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, filepath.Ext(p))
	p = strings.ReplaceAll(p, "___", "/")
	return NormalizeName(p, separator)
}
