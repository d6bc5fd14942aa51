package policy

import "strings"

// tagPrefix is the dynamic-tool tag: a header line attached to the
// canonical source only by successful validation. The registry refuses to
// load any artifact that does not carry it, so source placed in the store
// out-of-band is never executed.
const tagPrefix = "# dynamic-tool: "

func tagHeader(name string) string {
	return tagPrefix + name + "\n"
}

// TaggedName returns the tool name recorded in an artifact's dynamic-tool
// tag, or ok=false if the artifact is untagged.
func TaggedName(source string) (name string, ok bool) {
	line, _, _ := strings.Cut(source, "\n")
	rest, ok := strings.CutPrefix(line, tagPrefix)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}
