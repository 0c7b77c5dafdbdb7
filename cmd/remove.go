package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/slchen/vcpkg/builddb"
	"github.com/slchen/vcpkg/log"
	"github.com/slchen/vcpkg/plan"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

var removeRecurse bool

var removeCmd = &cobra.Command{
	Use:   "remove <pkg:triplet>...",
	Short: "Compute and display the removal plan for the given packages",
	Long: `Compute the removal plan for the requested packages. Installed packages
that depend on them are removed first; pulling in such dependents
requires --recurse.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeRecurse, "recurse", false, "Also remove packages that depend on the requested ones")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	logger, err := log.NewLogger(cfg.LogsPath)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer logger.Close()

	runID := uuid.New().String()
	runLog := logger.WithContext(log.RunContext{RunID: runID})

	var pspecs []specs.PackageSpec
	for _, arg := range args {
		spec, err := specs.ParsePackageSpec(arg, specs.Triplet(cfg.DefaultTriplet))
		if err != nil {
			return err
		}
		pspecs = append(pspecs, spec)
	}

	statusDB, err := status.Load(cfg.StatusFilePath())
	if err != nil {
		return err
	}

	start := time.Now()
	actions, err := plan.CreateRemovePlan(pspecs, statusDB)
	if err != nil {
		runLog.Error("planning failed: %v", err)
		return err
	}

	var notInstalled, removals []plan.RemoveAction
	hasAutoSelected := false
	for _, action := range actions {
		if action.PlanType == plan.RemoveNotInstalled {
			notInstalled = append(notInstalled, action)
			continue
		}
		removals = append(removals, action)
		logger.Removed(action.DisplayName())
		if action.RequestType == plan.AutoSelected {
			hasAutoSelected = true
		}
	}
	logger.WriteSummary(len(removals), 0, 0, time.Since(start))

	recordRun(&builddb.RunRecord{
		UUID:      runID,
		Command:   "remove",
		Specs:     args,
		Actions:   len(actions),
		StartTime: start,
		EndTime:   time.Now(),
	}, logger)

	for _, action := range notInstalled {
		fmt.Printf("Package %s is not installed\n", action.Spec)
	}

	if len(removals) > 0 {
		fmt.Println("The following packages will be removed:")
		for _, action := range removals {
			if action.RequestType == plan.UserRequested {
				fmt.Printf("    %s\n", action.DisplayName())
			} else {
				fmt.Printf("  * %s\n", action.DisplayName())
			}
		}
	}

	if hasAutoSelected {
		fmt.Println("Additional packages (*) need to be removed to complete this operation.")
		if !removeRecurse {
			fmt.Println("If you are sure you want to remove them, run the command with the --recurse option")
			return plan.ErrRequiresRecurse
		}
	}

	return nil
}
