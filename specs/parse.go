package specs

import (
	"fmt"
	"strings"
)

// Sentinel errors - simple error constants that can be checked with errors.Is()
var (
	// ErrInvalidSpec is returned when a package specifier is malformed
	// or cannot be parsed correctly.
	ErrInvalidSpec = fmt.Errorf("invalid package specifier")
)

// InvalidSpecError wraps parse failures with the offending input.
type InvalidSpecError struct {
	// Input is the specifier string that failed to parse
	Input string

	// Reason describes what was wrong with it
	Reason string
}

// Error implements the error interface
func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid package specifier %q: %s", e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidSpec) to work correctly
func (e *InvalidSpecError) Unwrap() error {
	return ErrInvalidSpec
}

// ParsePackageSpec parses a qualified specifier of the form "name" or
// "name:triplet". When no triplet is given, defaultTriplet is used.
func ParsePackageSpec(input string, defaultTriplet Triplet) (PackageSpec, error) {
	name, features, triplet, err := splitSpecifier(input, defaultTriplet)
	if err != nil {
		return PackageSpec{}, err
	}
	if features != nil {
		return PackageSpec{}, &InvalidSpecError{Input: input, Reason: "feature list not allowed here"}
	}
	return PackageSpec{Name: name, Triplet: triplet}, nil
}

// ParseFeatureSpecs parses a qualified specifier of the form
// "name[feat1,feat2]:triplet" into one FeatureSpec per feature. A bare
// "name" yields a single spec with an empty feature (meaning "core").
// The wildcard feature "*" is passed through for the planner to expand.
func ParseFeatureSpecs(input string, defaultTriplet Triplet) ([]FeatureSpec, error) {
	name, features, triplet, err := splitSpecifier(input, defaultTriplet)
	if err != nil {
		return nil, err
	}

	spec := PackageSpec{Name: name, Triplet: triplet}
	if len(features) == 0 {
		return []FeatureSpec{{Spec: spec}}, nil
	}

	out := make([]FeatureSpec, 0, len(features))
	for _, f := range features {
		out = append(out, FeatureSpec{Spec: spec, Feature: f})
	}
	return out, nil
}

// splitSpecifier breaks "name[f1,f2]:triplet" into its parts. features is
// nil when no bracket section was present.
func splitSpecifier(input string, defaultTriplet Triplet) (name string, features []string, triplet Triplet, err error) {
	rest := strings.TrimSpace(input)
	if rest == "" {
		return "", nil, "", &InvalidSpecError{Input: input, Reason: "empty specifier"}
	}

	triplet = defaultTriplet
	if idx := strings.LastIndex(rest, ":"); idx >= 0 {
		t := rest[idx+1:]
		if t == "" {
			return "", nil, "", &InvalidSpecError{Input: input, Reason: "empty triplet"}
		}
		triplet = Triplet(t)
		rest = rest[:idx]
	}

	if open := strings.Index(rest, "["); open >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return "", nil, "", &InvalidSpecError{Input: input, Reason: "unterminated feature list"}
		}
		list := rest[open+1 : len(rest)-1]
		rest = rest[:open]
		for _, f := range strings.Split(list, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				return "", nil, "", &InvalidSpecError{Input: input, Reason: "empty feature name"}
			}
			features = append(features, f)
		}
		if features == nil {
			return "", nil, "", &InvalidSpecError{Input: input, Reason: "empty feature list"}
		}
	}

	if !validPortName(rest) {
		return "", nil, "", &InvalidSpecError{Input: input, Reason: "invalid port name"}
	}

	return rest, features, triplet, nil
}

// Port names are lowercase alphanumerics with interior dashes.
func validPortName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(name)-1:
		default:
			return false
		}
	}
	return true
}
