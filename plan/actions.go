// Package plan computes ordered install, remove and export plans over a
// port tree and an installed-state snapshot. The central piece is the
// feature-aware install planner: a lazily materialized cluster graph over
// which the mark engine propagates install and remove decisions before two
// topological sorts linearize the result.
package plan

import (
	"fmt"
	"strings"

	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
)

// RequestType records whether a plan entry exists because the user named
// the package or because the planner pulled it in.
type RequestType int

const (
	AutoSelected RequestType = iota
	UserRequested
)

func (rt RequestType) String() string {
	switch rt {
	case UserRequested:
		return "user requested"
	default:
		return "auto selected"
	}
}

// InstallPlanType classifies an install action.
type InstallPlanType int

const (
	InstallPlanUnknown InstallPlanType = iota

	// BuildAndInstall builds the port from source, then installs it.
	BuildAndInstall

	// InstallBinary installs an already-built binary package.
	InstallBinary

	// AlreadyInstalled reports a user request that needs no work.
	AlreadyInstalled

	// Excluded marks a package the caller filtered out of the operation.
	Excluded
)

// RemovePlanType classifies a remove action.
type RemovePlanType int

const (
	RemovePlanUnknown RemovePlanType = iota

	// RemovePackage uninstalls an installed package.
	RemovePackage

	// RemoveNotInstalled reports a removal request for a package that is
	// not installed.
	RemoveNotInstalled
)

// ExportPlanType classifies an export action.
type ExportPlanType int

const (
	ExportPlanUnknown ExportPlanType = iota

	// AlreadyBuilt exports an existing binary package.
	AlreadyBuilt

	// PortAvailableButNotBuilt means the port must be built before it
	// can be exported.
	PortAvailableButNotBuilt
)

// InstallAction schedules one package installation. Actions own their
// data: Features is a sorted copy independent of the planner's state.
type InstallAction struct {
	Spec              specs.PackageSpec
	SourceControlFile *ports.SourceControlFile // set for BuildAndInstall
	BinaryControlFile *ports.BinaryControlFile // set for InstallBinary
	Features          []string
	PlanType          InstallPlanType
	RequestType       RequestType
}

// DisplayName renders the action as name[features]:triplet, or the bare
// spec when no features are listed.
func (a *InstallAction) DisplayName() string {
	if len(a.Features) == 0 {
		return a.Spec.String()
	}
	return fmt.Sprintf("%s[%s]:%s", a.Spec.Name, strings.Join(a.Features, ","), a.Spec.Triplet)
}

// RemoveAction schedules one package removal.
type RemoveAction struct {
	Spec        specs.PackageSpec
	PlanType    RemovePlanType
	RequestType RequestType
}

// DisplayName renders the action's package spec.
func (a *RemoveAction) DisplayName() string {
	return a.Spec.String()
}

// ExportAction schedules one package export.
type ExportAction struct {
	Spec        specs.PackageSpec
	Paragraph   AnyParagraph
	PlanType    ExportPlanType
	RequestType RequestType
}

// DisplayName renders the action's package spec.
func (a *ExportAction) DisplayName() string {
	return a.Spec.String()
}

// AnyAction is exactly one of an install or a remove action.
type AnyAction struct {
	Install *InstallAction
	Remove  *RemoveAction
}

// Spec returns the package spec of whichever action is present.
func (a AnyAction) Spec() specs.PackageSpec {
	switch {
	case a.Install != nil:
		return a.Install.Spec
	case a.Remove != nil:
		return a.Remove.Spec
	default:
		return specs.PackageSpec{}
	}
}
