package plan

import (
	"testing"

	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

// Scenario: removing a dependency removes its installed dependents first.
func TestRemovePlanReverseClosure(t *testing.T) {
	db := statusDB(
		installedRow("a", "", "b"),
		installedRow("b", ""),
	)

	actions, err := CreateRemovePlan([]specs.PackageSpec{pspec("b")}, db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %+v", actions)
	}
	if actions[0].Spec.Name != "a" || actions[1].Spec.Name != "b" {
		t.Fatalf("expected [a b], got %+v", actions)
	}

	if actions[0].RequestType != AutoSelected {
		t.Error("a was pulled in, must be auto selected")
	}
	if actions[1].RequestType != UserRequested {
		t.Error("b was requested, must be user requested")
	}
	for _, action := range actions {
		if action.PlanType != RemovePackage {
			t.Errorf("%s: expected RemovePackage, got %v", action.Spec, action.PlanType)
		}
	}
}

func TestRemovePlanTransitiveChain(t *testing.T) {
	db := statusDB(
		installedRow("app", "", "lib"),
		installedRow("lib", "", "base"),
		installedRow("base", ""),
	)

	actions, err := CreateRemovePlan([]specs.PackageSpec{pspec("base")}, db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, 0, len(actions))
	for _, action := range actions {
		got = append(got, action.Spec.Name)
	}
	if len(got) != 3 || got[0] != "app" || got[1] != "lib" || got[2] != "base" {
		t.Fatalf("expected [app lib base], got %v", got)
	}
}

func TestRemovePlanNotInstalled(t *testing.T) {
	actions, err := CreateRemovePlan([]specs.PackageSpec{pspec("ghost")}, statusDB())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %+v", actions)
	}
	if actions[0].PlanType != RemoveNotInstalled {
		t.Errorf("expected RemoveNotInstalled, got %v", actions[0].PlanType)
	}
	if actions[0].RequestType != UserRequested {
		t.Error("requested spec must be user requested")
	}
}

func TestRemovePlanTripletIsolation(t *testing.T) {
	// The windows build of app depends on lib, but only the linux lib is
	// being removed; the windows app must not be touched.
	windowsApp := &status.StatusParagraph{
		Spec:    specs.NewPackageSpec("app", "x64-windows"),
		Depends: []string{"lib"},
		Status:  status.InstalledState,
	}
	db := statusDB(
		windowsApp,
		installedRow("lib", ""),
	)

	actions, err := CreateRemovePlan([]specs.PackageSpec{pspec("lib")}, db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Spec.Name != "lib" {
		t.Fatalf("expected only lib, got %+v", actions)
	}
}

func TestRemovePlanFeatureRowDependents(t *testing.T) {
	// Only curl's ssl feature row depends on openssl; the dependent is
	// still discovered through it.
	db := statusDB(
		installedRow("curl", ""),
		installedRow("curl", "ssl", "openssl"),
		installedRow("openssl", ""),
	)

	actions, err := CreateRemovePlan([]specs.PackageSpec{pspec("openssl")}, db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(actions) != 2 || actions[0].Spec.Name != "curl" || actions[1].Spec.Name != "openssl" {
		t.Fatalf("expected [curl openssl], got %+v", actions)
	}
}
