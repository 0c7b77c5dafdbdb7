package plan

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintOptions controls plan rendering.
type PrintOptions struct {
	// Recursive allows plans that remove packages. Without it a plan
	// containing removals renders, warns, and fails.
	Recursive bool

	// UseHeadVersion appends " (from HEAD)" to each rendered action.
	UseHeadVersion bool
}

// toOutputString renders one plan line. User-requested entries are
// plainly indented; auto-selected ones carry the "*" marker.
func toOutputString(requestType RequestType, s string, fromHead bool) string {
	suffix := ""
	if fromHead {
		suffix = " (from HEAD)"
	}
	if requestType == UserRequested {
		return "    " + s + suffix
	}
	return "  * " + s + suffix
}

// PrintPlan categorizes the plan, prints each non-empty category sorted by
// package name, and gates removals on opts.Recursive: a plan with removals
// still prints, but returns ErrRequiresRecurse so the caller exits
// non-zero.
func PrintPlan(w io.Writer, actions []AnyAction, opts PrintOptions) error {
	var removePlans []*RemoveAction
	var rebuiltPlans []*InstallAction
	var onlyInstallPlans []*InstallAction
	var newPlans []*InstallAction
	var alreadyInstalledPlans []*InstallAction
	var excluded []*InstallAction

	hasNonUserRequested := false
	for _, action := range actions {
		if action.Install != nil && action.Install.RequestType != UserRequested {
			hasNonUserRequested = true
			break
		}
	}

	for _, action := range actions {
		switch {
		case action.Install != nil:
			install := action.Install

			// Removes are guaranteed to come before installs, so a spec
			// being rebuilt is already in removePlans by now.
			rebuilt := false
			for _, rp := range removePlans {
				if rp.Spec == install.Spec {
					rebuilt = true
					break
				}
			}
			if rebuilt {
				rebuiltPlans = append(rebuiltPlans, install)
				continue
			}

			switch install.PlanType {
			case InstallBinary:
				onlyInstallPlans = append(onlyInstallPlans, install)
			case AlreadyInstalled:
				if install.RequestType == UserRequested {
					alreadyInstalledPlans = append(alreadyInstalledPlans, install)
				}
			case BuildAndInstall:
				newPlans = append(newPlans, install)
			case Excluded:
				excluded = append(excluded, install)
			}

		case action.Remove != nil:
			removePlans = append(removePlans, action.Remove)
		}
	}

	byName := func(plans []*InstallAction) {
		sort.SliceStable(plans, func(i, j int) bool {
			return plans[i].Spec.Name < plans[j].Spec.Name
		})
	}
	sort.SliceStable(removePlans, func(i, j int) bool {
		return removePlans[i].Spec.Name < removePlans[j].Spec.Name
	})
	byName(rebuiltPlans)
	byName(onlyInstallPlans)
	byName(newPlans)
	byName(alreadyInstalledPlans)
	byName(excluded)

	render := func(plans []*InstallAction) string {
		lines := make([]string, 0, len(plans))
		for _, p := range plans {
			lines = append(lines, toOutputString(p.RequestType, p.DisplayName(), opts.UseHeadVersion))
		}
		return strings.Join(lines, "\n")
	}

	if len(excluded) > 0 {
		fmt.Fprintf(w, "The following packages are excluded:\n%s\n", render(excluded))
	}

	if len(alreadyInstalledPlans) > 0 {
		fmt.Fprintf(w, "The following packages are already installed:\n%s\n", render(alreadyInstalledPlans))
	}

	if len(rebuiltPlans) > 0 {
		fmt.Fprintf(w, "The following packages will be rebuilt:\n%s\n", render(rebuiltPlans))
	}

	if len(newPlans) > 0 {
		fmt.Fprintf(w, "The following packages will be built and installed:\n%s\n", render(newPlans))
	}

	if len(onlyInstallPlans) > 0 {
		fmt.Fprintf(w, "The following packages will be directly installed:\n%s\n", render(onlyInstallPlans))
	}

	if hasNonUserRequested {
		fmt.Fprintln(w, "Additional packages (*) will be modified to complete this operation.")
	}

	if len(removePlans) > 0 && !opts.Recursive {
		fmt.Fprintln(w, "If you are sure you want to rebuild the above packages, run the command with the --recurse option")
		return ErrRequiresRecurse
	}

	return nil
}

// PrintExportPlan renders an export plan grouped by readiness.
func PrintExportPlan(w io.Writer, actions []ExportAction, opts PrintOptions) {
	var built []*ExportAction
	var toBuild []*ExportAction

	for i := range actions {
		action := &actions[i]
		if action.PlanType == AlreadyBuilt {
			built = append(built, action)
		} else {
			toBuild = append(toBuild, action)
		}
	}

	byName := func(plans []*ExportAction) {
		sort.SliceStable(plans, func(i, j int) bool {
			return plans[i].Spec.Name < plans[j].Spec.Name
		})
	}
	byName(built)
	byName(toBuild)

	render := func(plans []*ExportAction) string {
		lines := make([]string, 0, len(plans))
		for _, p := range plans {
			lines = append(lines, toOutputString(p.RequestType, p.DisplayName(), opts.UseHeadVersion))
		}
		return strings.Join(lines, "\n")
	}

	if len(built) > 0 {
		fmt.Fprintf(w, "The following packages are already built and will be exported:\n%s\n", render(built))
	}

	if len(toBuild) > 0 {
		fmt.Fprintf(w, "The following packages need to be built before they can be exported:\n%s\n", render(toBuild))
	}
}
