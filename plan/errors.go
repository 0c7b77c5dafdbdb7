package plan

import (
	"fmt"

	"github.com/slchen/vcpkg/specs"
)

// Sentinel errors - simple error constants that can be checked with errors.Is()
var (
	// ErrFeatureNotFound is returned when a requested feature is not
	// declared by the port's CONTROL metadata.
	ErrFeatureNotFound = fmt.Errorf("feature not found")

	// ErrUnsatisfiedDependency is returned when a transitive build
	// dependency names a feature that does not exist.
	ErrUnsatisfiedDependency = fmt.Errorf("unsatisfied dependency")

	// ErrNoSuchPackage is returned when a package has no CONTROL metadata
	// where some is required (for export: and no cached binary either).
	// Installed records are not consulted.
	ErrNoSuchPackage = fmt.Errorf("no such package")

	// ErrMissingControlFile is returned when the serializer needs port
	// metadata for a rebuild but the cluster has none.
	ErrMissingControlFile = fmt.Errorf("missing CONTROL metadata")

	// ErrFeaturesRequired is returned by CreateInstallPlan when the
	// computed plan needs feature packages support.
	ErrFeaturesRequired = fmt.Errorf("the installation plan requires feature packages support")

	// ErrRequiresRecurse is returned by the renderer when the plan
	// contains removals and the caller did not opt in to them.
	ErrRequiresRecurse = fmt.Errorf("plan contains package removals")
)

// FeatureNotFoundError reports a user-requested feature that the port does
// not declare.
type FeatureNotFoundError struct {
	// Spec is the feature reference that could not be located
	Spec specs.FeatureSpec
}

// Error implements the error interface
func (e *FeatureNotFoundError) Error() string {
	return fmt.Sprintf("unable to locate feature %s", e.Spec)
}

// Unwrap allows errors.Is(err, ErrFeatureNotFound) to work correctly
func (e *FeatureNotFoundError) Unwrap() error {
	return ErrFeatureNotFound
}

// UnsatisfiedDependencyError reports a dependency edge whose target
// feature does not exist.
type UnsatisfiedDependencyError struct {
	// Dependency is the edge target that could not be satisfied
	Dependency specs.FeatureSpec

	// Dependent is the feature that declared the edge
	Dependent specs.FeatureSpec
}

// Error implements the error interface
func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("unable to satisfy dependency %s of %s", e.Dependency, e.Dependent)
}

// Unwrap allows errors.Is(err, ErrUnsatisfiedDependency) to work correctly
func (e *UnsatisfiedDependencyError) Unwrap() error {
	return ErrUnsatisfiedDependency
}

// NoSuchPackageError reports a package with no port metadata where some
// was required.
type NoSuchPackageError struct {
	// Spec is the package that could not be found
	Spec specs.PackageSpec
}

// Error implements the error interface
func (e *NoSuchPackageError) Error() string {
	return fmt.Sprintf("could not find package %s", e.Spec)
}

// Unwrap allows errors.Is(err, ErrNoSuchPackage) to work correctly
func (e *NoSuchPackageError) Unwrap() error {
	return ErrNoSuchPackage
}

// MissingControlFileError reports a cluster scheduled for a rebuild whose
// port metadata is gone (e.g. the port was removed upstream while the
// package is still installed).
type MissingControlFileError struct {
	// Spec is the package whose CONTROL metadata is missing
	Spec specs.PackageSpec
}

// Error implements the error interface
func (e *MissingControlFileError) Error() string {
	return fmt.Sprintf("no CONTROL metadata available for %s", e.Spec)
}

// Unwrap allows errors.Is(err, ErrMissingControlFile) to work correctly
func (e *MissingControlFileError) Unwrap() error {
	return ErrMissingControlFile
}
