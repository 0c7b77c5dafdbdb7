package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/slchen/vcpkg/builddb"
	"github.com/slchen/vcpkg/log"
	"github.com/slchen/vcpkg/plan"
	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

var upgradeRecurse bool

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <pkg:triplet>...",
	Short: "Compute and display the rebuild plan for installed packages",
	Long: `Rebuild the requested installed packages: each is removed together with
its installed dependents and reinstalled with its current feature set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeRecurse, "recurse", false, "Allow the removals the rebuild requires")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
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
	provider := ports.NewPathsProvider(cfg.PortsPath, logger)

	start := time.Now()
	pg := plan.NewPackageGraph(provider, statusDB, logger)
	for _, spec := range pspecs {
		if err := pg.Upgrade(spec); err != nil {
			runLog.Error("planning failed: %v", err)
			return err
		}
	}
	actions, err := pg.Serialize()
	if err != nil {
		runLog.Error("planning failed: %v", err)
		return err
	}

	removes, installs := 0, 0
	for _, action := range actions {
		switch {
		case action.Remove != nil:
			removes++
			logger.Removed(action.Remove.DisplayName())
		case action.Install != nil && action.Install.PlanType != plan.AlreadyInstalled:
			installs++
			logger.Installed(action.Install.DisplayName())
		}
	}
	logger.WriteSummary(removes, installs, 0, time.Since(start))

	recordRun(&builddb.RunRecord{
		UUID:      runID,
		Command:   "upgrade",
		Specs:     args,
		Actions:   len(actions),
		StartTime: start,
		EndTime:   time.Now(),
	}, logger)

	return plan.PrintPlan(os.Stdout, actions, plan.PrintOptions{Recursive: upgradeRecurse})
}
