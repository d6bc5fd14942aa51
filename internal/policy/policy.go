// Package policy implements the structural gate that every proposed tool
// must pass before it is persisted or executed. Validation is purely
// syntactic: the source is parsed into a Starlark syntax tree and checked
// against an allow-list policy, it is never evaluated.
package policy

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/syntax"

	"toolsmith/internal/starlark"
)

// Reason identifies why a proposal was rejected. Every rejection carries
// exactly one machine-checkable reason code.
type Reason string

const (
	ReasonSyntaxInvalid             Reason = "SyntaxInvalid"
	ReasonMultipleOrZeroDefinitions Reason = "MultipleOrZeroDefinitions"
	ReasonNameMismatch              Reason = "NameMismatch"
	ReasonForbiddenConstruct        Reason = "ForbiddenConstruct"
	ReasonDisallowedImport          Reason = "DisallowedImport"
	ReasonSourceTooLarge            Reason = "SourceTooLarge"
)

// Verdict is the outcome of validating one proposal. Either Accepted is
// true and CanonicalSource holds the tagged artifact body, or Accepted is
// false and Reason/Detail explain the rejection. Never both.
type Verdict struct {
	Accepted        bool
	Name            string
	CanonicalSource string
	Reason          Reason
	Detail          string
}

// Policy holds the structural rules applied to proposals.
type Policy struct {
	// AllowedModules is the import allow-list: module names that load()
	// statements may reference.
	AllowedModules map[string]bool

	// MaxSourceBytes and MaxSourceLines bound proposal size.
	MaxSourceBytes int
	MaxSourceLines int
}

const (
	// DefaultMaxSourceBytes and DefaultMaxSourceLines bound how much
	// source a single proposal may contain.
	DefaultMaxSourceBytes = 8000
	DefaultMaxSourceLines = 300
)

// Default returns a policy whose import allow-list is exactly the module
// set the embedded interpreter can serve.
func Default() *Policy {
	allowed := make(map[string]bool)
	for _, name := range starlark.ModuleNames() {
		allowed[name] = true
	}
	return &Policy{
		AllowedModules: allowed,
		MaxSourceBytes: DefaultMaxSourceBytes,
		MaxSourceLines: DefaultMaxSourceLines,
	}
}

// forbiddenCalls are callables a tool body may never invoke, whether as a
// bare name or as the final attribute of a dotted expression.
var forbiddenCalls = map[string]bool{
	"exec":       true,
	"eval":       true,
	"compile":    true,
	"open":       true,
	"__import__": true,
	"system":     true,
	"popen":      true,
}

// forbiddenKeywords are constructs the tool dialect reserves but does not
// support. They are detected by a pre-scan so that a proposal containing
// them is rejected as a policy violation rather than a parse failure.
var forbiddenKeywords = regexp.MustCompile(`\b(class|try|except|finally|with|raise|async|await)\b`)

// Validate checks a proposal against the policy and returns a verdict.
// Rules are applied in order, short-circuiting on the first violation.
// On acceptance the canonical source carries the dynamic-tool tag header
// that the registry re-checks before loading an artifact.
func (p *Policy) Validate(source, declaredName string) Verdict {
	normalized := normalize(source)

	// Size limits
	if len(normalized) > p.MaxSourceBytes {
		return reject(ReasonSourceTooLarge,
			fmt.Sprintf("source is %d bytes (max %d)", len(normalized), p.MaxSourceBytes))
	}
	if lines := strings.Count(normalized, "\n"); lines > p.MaxSourceLines {
		return reject(ReasonSourceTooLarge,
			fmt.Sprintf("source is %d lines (max %d)", lines, p.MaxSourceLines))
	}

	// Keyword pre-scan, on source with comments and strings blanked out
	if kw := forbiddenKeywords.FindString(blankLiterals(normalized)); kw != "" {
		return reject(ReasonForbiddenConstruct, kw)
	}

	// Parseability
	file, err := starlark.FileOptions.Parse(declaredName+".star", normalized, 0)
	if err != nil {
		return reject(ReasonSyntaxInvalid, err.Error())
	}

	// Exactly one top-level definition
	var def *syntax.DefStmt
	defs := 0
	for _, stmt := range file.Stmts {
		if d, ok := stmt.(*syntax.DefStmt); ok {
			def = d
			defs++
		}
	}
	if defs != 1 {
		return reject(ReasonMultipleOrZeroDefinitions,
			fmt.Sprintf("found %d top-level function definitions, want exactly 1", defs))
	}

	// Name agreement
	if def.Name.Name != declaredName {
		return reject(ReasonNameMismatch,
			fmt.Sprintf("declared name %q but source defines %q", declaredName, def.Name.Name))
	}

	// Loads are the only other statements permitted at top level
	for _, stmt := range file.Stmts {
		switch stmt.(type) {
		case *syntax.DefStmt, *syntax.LoadStmt:
		default:
			return reject(ReasonForbiddenConstruct, "top-level statement")
		}
	}

	// Forbidden constructs, at any depth
	if detail, found := findForbiddenConstruct(file); found {
		return reject(ReasonForbiddenConstruct, detail)
	}

	// Import allow-list
	if module, found := p.findDisallowedImport(file); found {
		return reject(ReasonDisallowedImport, module)
	}

	return Verdict{
		Accepted:        true,
		Name:            declaredName,
		CanonicalSource: tagHeader(declaredName) + normalized,
	}
}

func reject(reason Reason, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}

// findForbiddenConstruct walks the whole tree looking for lambda
// expressions and calls to denylisted names.
func findForbiddenConstruct(file *syntax.File) (string, bool) {
	var detail string
	for _, stmt := range file.Stmts {
		syntax.Walk(stmt, func(n syntax.Node) bool {
			if detail != "" {
				return false
			}
			switch node := n.(type) {
			case *syntax.LambdaExpr:
				detail = "lambda"
				return false
			case *syntax.CallExpr:
				switch fn := node.Fn.(type) {
				case *syntax.Ident:
					if forbiddenCalls[fn.Name] {
						detail = fn.Name
						return false
					}
				case *syntax.DotExpr:
					if forbiddenCalls[fn.Name.Name] {
						detail = fn.Name.Name
						return false
					}
				}
			}
			return true
		})
		if detail != "" {
			return detail, true
		}
	}
	return "", false
}

// findDisallowedImport checks every load() statement's module against the
// allow-list.
func (p *Policy) findDisallowedImport(file *syntax.File) (string, bool) {
	var module string
	var found bool
	for _, stmt := range file.Stmts {
		syntax.Walk(stmt, func(n syntax.Node) bool {
			if found {
				return false
			}
			if load, ok := n.(*syntax.LoadStmt); ok {
				name, _ := load.Module.Value.(string)
				if !p.AllowedModules[moduleRoot(name)] {
					module = name
					found = true
					return false
				}
			}
			return true
		})
		if found {
			return module, true
		}
	}
	return "", false
}

// moduleRoot reduces a load() module string to its root name, so that the
// allow-list covers dotted or path-style submodule references.
func moduleRoot(module string) string {
	module = strings.TrimSuffix(module, ".star")
	if i := strings.IndexAny(module, "./"); i >= 0 {
		return module[:i]
	}
	return module
}

// normalize produces the canonical body text: LF line endings, no leading
// tag header, exactly one trailing newline. Re-validating an already
// canonical artifact yields the same artifact.
func normalize(source string) string {
	s := strings.ReplaceAll(source, "\r\n", "\n")
	if name, ok := TaggedName(s); ok && name != "" {
		if _, rest, found := strings.Cut(s, "\n"); found {
			s = rest
		}
	}
	return strings.TrimRight(s, "\n\t ") + "\n"
}
