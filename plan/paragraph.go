package plan

import (
	"fmt"

	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

// AnyParagraph is exactly one of a status paragraph, a binary control
// file, or a source control file, whichever metadata was available for a
// package.
type AnyParagraph struct {
	Status *status.StatusParagraph
	Binary *ports.BinaryControlFile
	Source *ports.SourceControlFile
}

// Dependencies resolves the paragraph's dependency list to package specs
// for the given triplet. The package's own name is dropped so a feature
// paragraph depending on its core does not introduce a self-edge.
func (p AnyParagraph) Dependencies(triplet specs.Triplet) ([]specs.PackageSpec, error) {
	switch {
	case p.Status != nil:
		return specsFromNames(p.Status.Spec.Name, p.Status.Depends, triplet), nil

	case p.Binary != nil:
		return specsFromNames(p.Binary.Core.Spec.Name, p.Binary.AllDepends(), triplet), nil

	case p.Source != nil:
		filtered := ports.FilterDependencies(p.Source.Core.Depends, triplet)
		names := make([]string, 0, len(filtered))
		for _, d := range filtered {
			names = append(names, d.Name)
		}
		return specsFromNames(p.Source.Core.Name, names, triplet), nil

	default:
		return nil, fmt.Errorf("cannot get dependencies because there was none of: source/binary/status paragraphs")
	}
}

// specsFromNames maps dependency names to specs on the triplet, skipping
// duplicates and the owning package itself.
func specsFromNames(owner string, names []string, triplet specs.Triplet) []specs.PackageSpec {
	seen := make(map[string]struct{}, len(names))
	out := make([]specs.PackageSpec, 0, len(names))
	for _, name := range names {
		if name == "" || name == owner {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, specs.PackageSpec{Name: name, Triplet: triplet})
	}
	return out
}
