// Package status models the installed-state database: one paragraph per
// installed feature of each package, as recorded in the status file under
// the installed tree.
package status

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/slchen/vcpkg/specs"
)

// InstalledState is the canonical Status value of a fully installed row.
const InstalledState = "install ok installed"

// StatusParagraph is one installed-feature row. An empty Feature denotes
// the core package. Depends carries flattened port names, resolved against
// the row's own triplet.
type StatusParagraph struct {
	Spec    specs.PackageSpec
	Feature string
	Version string
	Depends []string
	Status  string
}

// IsInstalled reports whether the row records a completed installation.
func (p *StatusParagraph) IsInstalled() bool {
	return p.Status == InstalledState
}

// DisplayName renders the row for diagnostics.
func (p *StatusParagraph) DisplayName() string {
	if p.Feature == "" {
		return p.Spec.String()
	}
	return fmt.Sprintf("%s[%s]:%s", p.Spec.Name, p.Feature, p.Spec.Triplet)
}

// StatusParagraphs is an immutable snapshot of the installed database.
type StatusParagraphs struct {
	rows []*StatusParagraph
}

// New builds a snapshot from rows, preserving order.
func New(rows []*StatusParagraph) *StatusParagraphs {
	return &StatusParagraphs{rows: rows}
}

// Installed returns every installed row, in database order.
func (s *StatusParagraphs) Installed() []*StatusParagraph {
	out := make([]*StatusParagraph, 0, len(s.rows))
	for _, row := range s.rows {
		if row.IsInstalled() {
			out = append(out, row)
		}
	}
	return out
}

// FindInstalled returns the installed core row for spec, or nil.
func (s *StatusParagraphs) FindInstalled(spec specs.PackageSpec) *StatusParagraph {
	for _, row := range s.rows {
		if row.Feature == "" && row.Spec == spec && row.IsInstalled() {
			return row
		}
	}
	return nil
}

// Load reads the status file at path. A missing file yields an empty
// snapshot: a fresh tree has nothing installed.
func Load(path string) (*StatusParagraphs, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to open status file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads status paragraphs from r. Stanzas are blank-line separated:
//
//	Package: curl
//	Feature: ssl
//	Version: 7.68.0
//	Architecture: x64-linux
//	Depends: openssl, zlib
//	Status: install ok installed
func Parse(r io.Reader) (*StatusParagraphs, error) {
	var rows []*StatusParagraph
	fields := make(map[string]string)
	lineno := 0
	stanzaStart := 0

	flush := func() error {
		if len(fields) == 0 {
			return nil
		}
		row, err := rowFromFields(fields)
		if err != nil {
			return fmt.Errorf("status stanza at line %d: %w", stanzaStart, err)
		}
		rows = append(rows, row)
		fields = make(map[string]string)
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("status file line %d: expected 'Field: value'", lineno)
		}
		if len(fields) == 0 {
			stanzaStart = lineno
		}
		fields[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return New(rows), nil
}

func rowFromFields(fields map[string]string) (*StatusParagraph, error) {
	name := fields["Package"]
	if name == "" {
		return nil, fmt.Errorf("missing Package field")
	}
	arch := fields["Architecture"]
	if arch == "" {
		return nil, fmt.Errorf("missing Architecture field")
	}

	row := &StatusParagraph{
		Spec:    specs.PackageSpec{Name: name, Triplet: specs.Triplet(arch)},
		Feature: fields["Feature"],
		Version: fields["Version"],
		Status:  fields["Status"],
	}
	if deps := fields["Depends"]; deps != "" {
		for _, d := range strings.Split(deps, ",") {
			d = strings.TrimSpace(d)
			if d != "" {
				row.Depends = append(row.Depends, d)
			}
		}
	}
	return row, nil
}
