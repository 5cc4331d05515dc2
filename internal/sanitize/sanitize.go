// Package sanitize strips shell metacharacters from untrusted command
// arguments. The backend CLI may be launched through a shell-interpreting
// wrapper, so this is the last line of defense against argument injection.
// It intentionally degrades argument fidelity rather than erroring.
package sanitize

import "strings"

// shellMeta holds the characters removed from every argument.
const shellMeta = ";&|`$(){}[]<>\\"

// Args returns a new slice in which each argument has shell metacharacters
// removed, internal whitespace collapsed to single spaces, and surrounding
// whitespace trimmed. Arguments that become empty are dropped. The input
// slice is never modified.
func Args(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		cleaned := Arg(arg)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// Arg sanitizes a single argument string. Pure function; never fails.
func Arg(arg string) string {
	var b strings.Builder
	b.Grow(len(arg))
	for _, r := range arg {
		if strings.ContainsRune(shellMeta, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
