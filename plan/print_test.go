package plan

import (
	"errors"
	"strings"
	"testing"
)

func installAction(name string, planType InstallPlanType, requestType RequestType, features ...string) AnyAction {
	return AnyAction{Install: &InstallAction{
		Spec:        pspec(name),
		Features:    features,
		PlanType:    planType,
		RequestType: requestType,
	}}
}

func removeAction(name string, requestType RequestType) AnyAction {
	return AnyAction{Remove: &RemoveAction{
		Spec:        pspec(name),
		PlanType:    RemovePackage,
		RequestType: requestType,
	}}
}

func TestPrintPlanCategories(t *testing.T) {
	actions := []AnyAction{
		removeAction("lib", AutoSelected),
		installAction("lib", BuildAndInstall, AutoSelected, "core"),
		installAction("app", BuildAndInstall, UserRequested, "core"),
		installAction("zlib", AlreadyInstalled, UserRequested, "core"),
	}

	var out strings.Builder
	err := PrintPlan(&out, actions, PrintOptions{Recursive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.String()

	if !strings.Contains(text, "The following packages are already installed:\n    zlib[core]:x64-linux") {
		t.Errorf("missing already-installed section:\n%s", text)
	}
	if !strings.Contains(text, "The following packages will be rebuilt:\n  * lib[core]:x64-linux") {
		t.Errorf("missing rebuilt section:\n%s", text)
	}
	if !strings.Contains(text, "The following packages will be built and installed:\n    app[core]:x64-linux") {
		t.Errorf("missing new section:\n%s", text)
	}
	if !strings.Contains(text, "Additional packages (*) will be modified") {
		t.Errorf("missing auto-selected banner:\n%s", text)
	}
}

func TestPrintPlanSortsByName(t *testing.T) {
	actions := []AnyAction{
		installAction("zlib", BuildAndInstall, UserRequested, "core"),
		installAction("abc", BuildAndInstall, UserRequested, "core"),
		installAction("curl", BuildAndInstall, UserRequested, "core"),
	}

	var out strings.Builder
	if err := PrintPlan(&out, actions, PrintOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.String()

	abc := strings.Index(text, "abc[core]")
	curl := strings.Index(text, "curl[core]")
	zlib := strings.Index(text, "zlib[core]")
	if !(abc < curl && curl < zlib) {
		t.Errorf("expected lexicographic order, got:\n%s", text)
	}
}

func TestPrintPlanAlreadyInstalledUserOnly(t *testing.T) {
	actions := []AnyAction{
		installAction("auto", AlreadyInstalled, AutoSelected, "core"),
	}

	var out strings.Builder
	if err := PrintPlan(&out, actions, PrintOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.String(), "auto[core]") {
		t.Errorf("auto-selected already-installed entries must be hidden:\n%s", out.String())
	}
}

func TestPrintPlanNonRecursiveRemoves(t *testing.T) {
	actions := []AnyAction{
		removeAction("lib", AutoSelected),
		installAction("lib", BuildAndInstall, AutoSelected, "core"),
	}

	var out strings.Builder
	err := PrintPlan(&out, actions, PrintOptions{Recursive: false})
	if !errors.Is(err, ErrRequiresRecurse) {
		t.Fatalf("expected ErrRequiresRecurse, got: %v", err)
	}
	if !strings.Contains(out.String(), "--recurse") {
		t.Errorf("expected recurse hint:\n%s", out.String())
	}
}

func TestPrintPlanRecursiveAllowsRemoves(t *testing.T) {
	actions := []AnyAction{
		removeAction("lib", UserRequested),
		installAction("lib", BuildAndInstall, UserRequested, "core"),
	}

	var out strings.Builder
	if err := PrintPlan(&out, actions, PrintOptions{Recursive: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPrintPlanFromHead(t *testing.T) {
	actions := []AnyAction{
		installAction("app", BuildAndInstall, UserRequested, "core"),
	}

	var out strings.Builder
	if err := PrintPlan(&out, actions, PrintOptions{UseHeadVersion: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "app[core]:x64-linux (from HEAD)") {
		t.Errorf("expected HEAD suffix:\n%s", out.String())
	}
}

func TestToOutputString(t *testing.T) {
	if got := toOutputString(AutoSelected, "x", false); got != "  * x" {
		t.Errorf("auto: %q", got)
	}
	if got := toOutputString(UserRequested, "x", false); got != "    x" {
		t.Errorf("user: %q", got)
	}
}

func TestPrintExportPlan(t *testing.T) {
	actions := []ExportAction{
		{Spec: pspec("src"), PlanType: PortAvailableButNotBuilt, RequestType: AutoSelected},
		{Spec: pspec("bin"), PlanType: AlreadyBuilt, RequestType: UserRequested},
	}

	var out strings.Builder
	PrintExportPlan(&out, actions, PrintOptions{})
	text := out.String()

	if !strings.Contains(text, "already built and will be exported:\n    bin:x64-linux") {
		t.Errorf("missing built section:\n%s", text)
	}
	if !strings.Contains(text, "need to be built before they can be exported:\n  * src:x64-linux") {
		t.Errorf("missing to-build section:\n%s", text)
	}
}

func TestInstallActionDisplayName(t *testing.T) {
	a := &InstallAction{Spec: pspec("curl")}
	if a.DisplayName() != "curl:x64-linux" {
		t.Errorf("bare: %s", a.DisplayName())
	}
	a.Features = []string{"core", "ssl"}
	if a.DisplayName() != "curl[core,ssl]:x64-linux" {
		t.Errorf("featured: %s", a.DisplayName())
	}
}
