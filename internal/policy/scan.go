package policy

// blankLiterals replaces the contents of comments and string literals with
// spaces, so the forbidden-keyword pre-scan never matches text that is only
// mentioned, not written as code. Newlines are preserved. Malformed
// literals are left for the parser to report.
func blankLiterals(src string) string {
	out := []byte(src)
	n := len(out)
	i := 0
	for i < n {
		switch c := out[i]; {
		case c == '#':
			for i < n && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '\'' || c == '"':
			quote := c
			triple := i+2 < n && out[i+1] == quote && out[i+2] == quote
			start := i
			if triple {
				i += 3
			} else {
				i++
			}
			for i < n {
				if out[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if out[i] == quote {
					if !triple {
						i++
						break
					}
					if i+2 < n && out[i+1] == quote && out[i+2] == quote {
						i += 3
						break
					}
				}
				if !triple && out[i] == '\n' {
					break // unterminated single-line string
				}
				i++
			}
			for j := start; j < i; j++ {
				if out[j] != '\n' {
					out[j] = ' '
				}
			}
		default:
			i++
		}
	}
	return string(out)
}
