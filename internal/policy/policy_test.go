package policy

import (
	"strings"
	"testing"
)

const addTwoSource = `def add_two(a, b):
    return a + b
`

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		source   string
	}{
		{"simple function", "add_two", addTwoSource},
		{"allowed import", "root", "load(\"math\", \"sqrt\")\n\ndef root(x):\n    return sqrt(x)\n"},
		{"module self binding", "root", "load(\"math\", \"math\")\n\ndef root(x):\n    return math.sqrt(x)\n"},
		{"nested helper def", "outer", "def outer(x):\n    def inner(y):\n        return y * 2\n    return inner(x)\n"},
		{"keyword in string", "doc", "def doc():\n    return \"a class act, try it with style\"\n"},
		{"keyword in comment", "c", "# try not to raise expectations\ndef c():\n    return 1\n"},
		{"loops and conditionals", "total", "def total(items):\n    n = 0\n    for item in items:\n        if item > 0:\n            n += item\n    return n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Default().Validate(tt.source, tt.declared)
			if !verdict.Accepted {
				t.Fatalf("Validate() rejected: %s (%s)", verdict.Reason, verdict.Detail)
			}
			if verdict.Name != tt.declared {
				t.Errorf("Verdict.Name = %q, want %q", verdict.Name, tt.declared)
			}
			tagged, ok := TaggedName(verdict.CanonicalSource)
			if !ok || tagged != tt.declared {
				t.Errorf("canonical source tag = (%q, %v), want (%q, true)", tagged, ok, tt.declared)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name       string
		declared   string
		source     string
		wantReason Reason
		wantDetail string // substring, empty means don't check
	}{
		{"unparseable", "f", "def f(:\n    return 1\n", ReasonSyntaxInvalid, ""},
		{"zero definitions", "f", "load(\"math\", \"sqrt\")\n", ReasonMultipleOrZeroDefinitions, ""},
		{"two definitions", "f", "def f():\n    return 1\n\ndef g():\n    return 2\n", ReasonMultipleOrZeroDefinitions, ""},
		{"name mismatch", "foo", "def bar():\n    return 1\n", ReasonNameMismatch, "bar"},
		{"class definition", "f", "def f():\n    return 1\n\nclass Helper:\n    pass\n", ReasonForbiddenConstruct, "class"},
		{"try block", "f", "def f():\n    try:\n        return 1\n    except:\n        return 0\n", ReasonForbiddenConstruct, "try"},
		{"with block", "f", "def f():\n    with x:\n        return 1\n", ReasonForbiddenConstruct, "with"},
		{"raise statement", "f", "def f():\n    raise ValueError\n", ReasonForbiddenConstruct, "raise"},
		{"lambda", "f", "def f(xs):\n    return sorted(xs, key=lambda x: -x)\n", ReasonForbiddenConstruct, "lambda"},
		{"eval call", "f", "def f(s):\n    return eval(s)\n", ReasonForbiddenConstruct, "eval"},
		{"open call", "f", "def f(path):\n    return open(path)\n", ReasonForbiddenConstruct, "open"},
		{"attribute call tail", "f", "def f(c):\n    return c.popen(\"ls\")\n", ReasonForbiddenConstruct, "popen"},
		{"deeply nested eval", "f", "def f(xs):\n    for x in xs:\n        if x:\n            return [eval(y) for y in x]\n    return None\n", ReasonForbiddenConstruct, "eval"},
		{"top-level statement", "f", "def f():\n    return 1\n\nprint(\"hi\")\n", ReasonForbiddenConstruct, "top-level"},
		{"disallowed import", "f", "load(\"socket\", \"socket\")\n\ndef f(host):\n    return socket(host)\n", ReasonDisallowedImport, "socket"},
		{"disallowed submodule", "f", "load(\"os/path.star\", \"join\")\n\ndef f(a, b):\n    return join(a, b)\n", ReasonDisallowedImport, "os"},
		{"empty module load", "f", "load(\"\", \"x\")\n\ndef f():\n    return x\n", ReasonDisallowedImport, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Default().Validate(tt.source, tt.declared)
			if verdict.Accepted {
				t.Fatalf("Validate() accepted, want rejection with %s", tt.wantReason)
			}
			if verdict.Reason != tt.wantReason {
				t.Errorf("Verdict.Reason = %s, want %s (detail: %s)", verdict.Reason, tt.wantReason, verdict.Detail)
			}
			if tt.wantDetail != "" && !strings.Contains(verdict.Detail, tt.wantDetail) {
				t.Errorf("Verdict.Detail = %q, want substring %q", verdict.Detail, tt.wantDetail)
			}
			if verdict.CanonicalSource != "" {
				t.Errorf("rejected verdict carries canonical source")
			}
		})
	}
}

func TestValidateSizeLimits(t *testing.T) {
	t.Run("too many bytes", func(t *testing.T) {
		source := "def f():\n    return \"" + strings.Repeat("x", DefaultMaxSourceBytes) + "\"\n"
		verdict := Default().Validate(source, "f")
		if verdict.Accepted || verdict.Reason != ReasonSourceTooLarge {
			t.Errorf("Validate() = (%v, %s), want SourceTooLarge", verdict.Accepted, verdict.Reason)
		}
	})

	t.Run("too many lines", func(t *testing.T) {
		source := "def f():\n" + strings.Repeat("    x = 1\n", DefaultMaxSourceLines) + "    return x\n"
		verdict := Default().Validate(source, "f")
		if verdict.Accepted || verdict.Reason != ReasonSourceTooLarge {
			t.Errorf("Validate() = (%v, %s), want SourceTooLarge", verdict.Accepted, verdict.Reason)
		}
	})
}

func TestValidateCustomAllowList(t *testing.T) {
	p := Default()
	p.AllowedModules = map[string]bool{"json": true}

	verdict := p.Validate("load(\"math\", \"sqrt\")\n\ndef f(x):\n    return sqrt(x)\n", "f")
	if verdict.Accepted || verdict.Reason != ReasonDisallowedImport {
		t.Errorf("Validate() = (%v, %s), want DisallowedImport for narrowed allow-list",
			verdict.Accepted, verdict.Reason)
	}

	verdict = p.Validate("load(\"json\", \"encode\")\n\ndef f(x):\n    return encode(x)\n", "f")
	if !verdict.Accepted {
		t.Errorf("Validate() rejected allow-listed module: %s (%s)", verdict.Reason, verdict.Detail)
	}
}

func TestValidateCanonicalIdempotent(t *testing.T) {
	first := Default().Validate(addTwoSource, "add_two")
	if !first.Accepted {
		t.Fatalf("first Validate() rejected: %s", first.Reason)
	}

	// Re-validating the canonical artifact must yield the same artifact
	second := Default().Validate(first.CanonicalSource, "add_two")
	if !second.Accepted {
		t.Fatalf("second Validate() rejected: %s (%s)", second.Reason, second.Detail)
	}
	if first.CanonicalSource != second.CanonicalSource {
		t.Errorf("canonical source not idempotent:\nfirst:  %q\nsecond: %q",
			first.CanonicalSource, second.CanonicalSource)
	}
}

func TestValidateNormalizesLineEndings(t *testing.T) {
	verdict := Default().Validate("def f():\r\n    return 1\r\n", "f")
	if !verdict.Accepted {
		t.Fatalf("Validate() rejected CRLF source: %s (%s)", verdict.Reason, verdict.Detail)
	}
	if strings.Contains(verdict.CanonicalSource, "\r") {
		t.Errorf("canonical source still contains carriage returns")
	}
}

func TestTaggedName(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantName string
		wantOK   bool
	}{
		{"tagged", "# dynamic-tool: add_two\ndef add_two(a, b):\n    return a + b\n", "add_two", true},
		{"untagged", "def add_two(a, b):\n    return a + b\n", "", false},
		{"other comment", "# some comment\ndef f():\n    return 1\n", "", false},
		{"empty tag", "# dynamic-tool: \ndef f():\n    return 1\n", "", false},
		{"empty source", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := TaggedName(tt.source)
			if name != tt.wantName || ok != tt.wantOK {
				t.Errorf("TaggedName() = (%q, %v), want (%q, %v)", name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}
