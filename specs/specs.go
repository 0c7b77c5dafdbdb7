package specs

import "fmt"

// Triplet identifies a target platform (architecture + OS + linkage),
// e.g. "x64-linux" or "x86-windows-static". Packages built for different
// triplets are disjoint universes: dependency edges never cross triplets
// unless a dependency names an explicit override.
type Triplet string

func (t Triplet) String() string {
	return string(t)
}

// Tokens returns the dash-separated components of the triplet.
// "x64-linux" -> ["x64", "linux"].
func (t Triplet) Tokens() []string {
	var tokens []string
	start := 0
	s := string(t)
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '-' {
			if i > start {
				tokens = append(tokens, s[start:i])
			}
			start = i + 1
		}
	}
	return tokens
}

// HasToken reports whether the triplet contains the given component.
func (t Triplet) HasToken(token string) bool {
	for _, tok := range t.Tokens() {
		if tok == token {
			return true
		}
	}
	return false
}

// PackageSpec identifies one package instance: a port name plus the
// triplet it is built for. It is a value type; equality and map keys use
// both components.
type PackageSpec struct {
	Name    string
	Triplet Triplet
}

func NewPackageSpec(name string, triplet Triplet) PackageSpec {
	return PackageSpec{Name: name, Triplet: triplet}
}

func (s PackageSpec) String() string {
	return s.Name + ":" + string(s.Triplet)
}

// FeatureSpec identifies one feature of one package instance. An empty
// Feature means the reference did not name a feature; edge targets
// normalize that to "core".
type FeatureSpec struct {
	Spec    PackageSpec
	Feature string
}

func NewFeatureSpec(spec PackageSpec, feature string) FeatureSpec {
	return FeatureSpec{Spec: spec, Feature: feature}
}

func (f FeatureSpec) String() string {
	if f.Feature == "" {
		return f.Spec.String()
	}
	return fmt.Sprintf("%s[%s]:%s", f.Spec.Name, f.Feature, f.Spec.Triplet)
}

// FeatureSpecsFromNames resolves a flattened dependency name list (as found
// in installed-state rows) against a triplet. The resulting specs carry an
// empty feature, which consumers treat as "core".
func FeatureSpecsFromNames(names []string, triplet Triplet) []FeatureSpec {
	out := make([]FeatureSpec, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		out = append(out, FeatureSpec{Spec: PackageSpec{Name: name, Triplet: triplet}})
	}
	return out
}
