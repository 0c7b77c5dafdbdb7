package ports

import "github.com/slchen/vcpkg/specs"

// BinaryParagraph describes one built paragraph of a package: either the
// core package or one of its features. Depends are flattened port names,
// resolved against the paragraph's own triplet.
type BinaryParagraph struct {
	Spec        specs.PackageSpec `json:"spec"`
	Version     string            `json:"version"`
	Feature     string            `json:"feature,omitempty"`
	Description string            `json:"description,omitempty"`
	Depends     []string          `json:"depends,omitempty"`
}

// BinaryControlFile is the metadata of a fully built package: the core
// paragraph plus one paragraph per built feature. Stored in the binary
// cache after a successful build.
type BinaryControlFile struct {
	Core     BinaryParagraph   `json:"core"`
	Features []BinaryParagraph `json:"features,omitempty"`
}

// AllDepends returns the feature and core dependency names in one list:
// feature entries first, then core, each in declaration order, to match
// the build driver's flattening. Duplicates are kept.
func (bcf *BinaryControlFile) AllDepends() []string {
	var out []string
	for _, f := range bcf.Features {
		out = append(out, f.Depends...)
	}
	out = append(out, bcf.Core.Depends...)
	return out
}
