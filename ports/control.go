package ports

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/slchen/vcpkg/specs"
)

// Sentinel errors - simple error constants that can be checked with errors.Is()
var (
	// ErrMalformedControl is returned when a CONTROL file cannot be parsed.
	ErrMalformedControl = fmt.Errorf("malformed CONTROL file")
)

// ControlParseError wraps CONTROL parse failures with the port name (when
// known) and the offending line.
type ControlParseError struct {
	// Port is the Source name, if one was parsed before the failure
	Port string

	// Line is the 1-based line number of the failure
	Line int

	// Reason describes the failure
	Reason string
}

// Error implements the error interface
func (e *ControlParseError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("CONTROL for %s: line %d: %s", e.Port, e.Line, e.Reason)
	}
	return fmt.Sprintf("CONTROL: line %d: %s", e.Line, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedControl) to work correctly
func (e *ControlParseError) Unwrap() error {
	return ErrMalformedControl
}

// fieldMap is one parsed stanza: field name -> joined value. Continuation
// lines (leading whitespace) append to the previous field.
type fieldMap map[string]string

// ParseControl parses a CONTROL document: one Source stanza followed by
// zero or more Feature stanzas, stanzas separated by blank lines.
//
//	Source: curl
//	Version: 7.68.0
//	Build-Depends: zlib, openssl (!windows)
//
//	Feature: http2
//	Description: HTTP/2 support
//	Build-Depends: nghttp2
func ParseControl(r io.Reader) (*SourceControlFile, error) {
	stanzas, err := splitStanzas(r)
	if err != nil {
		return nil, err
	}
	if len(stanzas) == 0 {
		return nil, &ControlParseError{Line: 1, Reason: "empty file"}
	}

	core := stanzas[0]
	name := core.fields["Source"]
	if name == "" {
		return nil, &ControlParseError{Line: core.line, Reason: "missing Source field"}
	}
	coreDeps, err := ParseDependencyList(core.fields["Build-Depends"])
	if err != nil {
		return nil, &ControlParseError{Port: name, Line: core.line, Reason: err.Error()}
	}

	scf := &SourceControlFile{
		Core: &SourceParagraph{
			Name:        name,
			Version:     core.fields["Version"],
			Description: core.fields["Description"],
			Maintainer:  core.fields["Maintainer"],
			Depends:     coreDeps,
		},
	}

	for _, stanza := range stanzas[1:] {
		fname := stanza.fields["Feature"]
		if fname == "" {
			return nil, &ControlParseError{Port: name, Line: stanza.line, Reason: "missing Feature field"}
		}
		deps, err := ParseDependencyList(stanza.fields["Build-Depends"])
		if err != nil {
			return nil, &ControlParseError{Port: name, Line: stanza.line, Reason: err.Error()}
		}
		scf.Features = append(scf.Features, &FeatureParagraph{
			Name:        fname,
			Description: stanza.fields["Description"],
			Depends:     deps,
		})
	}

	return scf, nil
}

type stanza struct {
	line   int
	fields fieldMap
}

func splitStanzas(r io.Reader) ([]stanza, error) {
	var stanzas []stanza
	var current fieldMap
	var lastField string
	startLine := 0

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			if current != nil {
				stanzas = append(stanzas, stanza{line: startLine, fields: current})
				current = nil
				lastField = ""
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if lastField == "" {
				return nil, &ControlParseError{Line: lineno, Reason: "continuation line with no field"}
			}
			current[lastField] += " " + strings.TrimSpace(line)
			continue
		}

		idx := strings.Index(line, ":")
		if idx <= 0 {
			return nil, &ControlParseError{Line: lineno, Reason: "expected 'Field: value'"}
		}
		if current == nil {
			current = make(fieldMap)
			startLine = lineno
		}
		lastField = strings.TrimSpace(line[:idx])
		current[lastField] = strings.TrimSpace(line[idx+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		stanzas = append(stanzas, stanza{line: startLine, fields: current})
	}
	return stanzas, nil
}

// ParseDependencyList parses a comma-separated Build-Depends value. Each
// entry is "name", optionally followed by "[feature]", ":triplet" and a
// parenthesized platform qualifier:
//
//	zlib, openssl[tools]:x64-linux, winsdk (windows&!uwp)
func ParseDependencyList(value string) ([]Dependency, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var deps []Dependency
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, fmt.Errorf("empty dependency entry")
		}
		dep, err := parseDependency(entry)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func parseDependency(entry string) (Dependency, error) {
	var dep Dependency

	// Trailing "(qualifier)"
	if strings.HasSuffix(entry, ")") {
		open := strings.LastIndex(entry, "(")
		if open < 0 {
			return dep, fmt.Errorf("unbalanced platform qualifier in %q", entry)
		}
		dep.Platform = strings.TrimSpace(entry[open+1 : len(entry)-1])
		entry = strings.TrimSpace(entry[:open])
	}

	// ":triplet" override
	if idx := strings.LastIndex(entry, ":"); idx >= 0 {
		t := strings.TrimSpace(entry[idx+1:])
		if t == "" {
			return dep, fmt.Errorf("empty triplet override in %q", entry)
		}
		dep.Triplet = specs.Triplet(t)
		entry = entry[:idx]
	}

	// "[feature]"
	if open := strings.Index(entry, "["); open >= 0 {
		if !strings.HasSuffix(entry, "]") {
			return dep, fmt.Errorf("unterminated feature in %q", entry)
		}
		dep.Feature = strings.TrimSpace(entry[open+1 : len(entry)-1])
		if dep.Feature == "" || strings.Contains(dep.Feature, ",") {
			return dep, fmt.Errorf("invalid feature in %q", entry)
		}
		entry = entry[:open]
	}

	dep.Name = strings.TrimSpace(entry)
	if dep.Name == "" {
		return dep, fmt.Errorf("missing dependency name")
	}
	return dep, nil
}
