// Package ports holds the port metadata model: source control files with
// their core and feature paragraphs, binary control files describing built
// packages, and the providers that look ports up by name.
package ports

import (
	"strings"

	"github.com/slchen/vcpkg/specs"
)

// Dependency is one entry of a Build-Depends list. Feature and Triplet are
// optional; an empty Triplet inherits the depending package's triplet.
// Platform is a qualifier expression; when it does not apply to the
// resolved triplet the entry is dropped at cluster-materialization time.
type Dependency struct {
	Name     string
	Feature  string
	Triplet  specs.Triplet
	Platform string
}

// SpecFor resolves the dependency against the depending package's triplet.
func (d Dependency) SpecFor(host specs.Triplet) specs.FeatureSpec {
	triplet := host
	if d.Triplet != "" {
		triplet = d.Triplet
	}
	return specs.FeatureSpec{
		Spec:    specs.PackageSpec{Name: d.Name, Triplet: triplet},
		Feature: d.Feature,
	}
}

// PlatformApplies evaluates a qualifier expression against a triplet.
// The expression is a '&'-joined list of optionally negated tokens:
// "linux", "!windows", "windows&!static". An empty expression always
// applies. Tokens are matched against the triplet's components.
func PlatformApplies(expr string, triplet specs.Triplet) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	for _, term := range strings.Split(expr, "&") {
		term = strings.TrimSpace(term)
		negate := false
		if strings.HasPrefix(term, "!") {
			negate = true
			term = strings.TrimSpace(term[1:])
		}
		if term == "" {
			continue
		}
		if triplet.HasToken(term) == negate {
			return false
		}
	}
	return true
}

// FilterDependencies drops entries whose platform qualifier does not apply
// to the triplet each entry resolves to.
func FilterDependencies(deps []Dependency, triplet specs.Triplet) []Dependency {
	out := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		resolved := triplet
		if d.Triplet != "" {
			resolved = d.Triplet
		}
		if !PlatformApplies(d.Platform, resolved) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterDependenciesToSpecs filters by platform and resolves the surviving
// entries to feature specs against the given triplet.
func FilterDependenciesToSpecs(deps []Dependency, triplet specs.Triplet) []specs.FeatureSpec {
	filtered := FilterDependencies(deps, triplet)
	out := make([]specs.FeatureSpec, 0, len(filtered))
	for _, d := range filtered {
		out = append(out, d.SpecFor(triplet))
	}
	return out
}

// SourceParagraph is the core paragraph of a port: identity plus the
// dependencies required to build the port with no features selected.
type SourceParagraph struct {
	Name        string
	Version     string
	Description string
	Maintainer  string
	Depends     []Dependency
}

// FeatureParagraph declares one optional feature and its additional
// dependencies.
type FeatureParagraph struct {
	Name        string
	Description string
	Depends     []Dependency
}

// SourceControlFile is the parsed metadata of one port. Immutable
// reference data from the planner's perspective.
type SourceControlFile struct {
	Core     *SourceParagraph
	Features []*FeatureParagraph
}

// FindFeature returns the feature paragraph with the given name, or nil.
func (scf *SourceControlFile) FindFeature(name string) *FeatureParagraph {
	for _, f := range scf.Features {
		if f.Name == name {
			return f
		}
	}
	return nil
}
