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

var (
	installRecurse bool
	installHead    bool
)

var installCmd = &cobra.Command{
	Use:   "install <pkg[features]:triplet>...",
	Short: "Compute and display the install plan for the given packages",
	Long: `Compute the feature-aware installation plan for the requested packages
against the current installed state. Removals required to change a
package's feature set are only allowed with --recurse.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installRecurse, "recurse", false, "Allow removing packages as part of installation")
	installCmd.Flags().BoolVar(&installHead, "head", false, "Install the packages from HEAD")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	logger, err := log.NewLogger(cfg.LogsPath)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer logger.Close()

	runID := uuid.New().String()
	runLog := logger.WithContext(log.RunContext{RunID: runID})

	var fspecs []specs.FeatureSpec
	for _, arg := range args {
		parsed, err := specs.ParseFeatureSpecs(arg, specs.Triplet(cfg.DefaultTriplet))
		if err != nil {
			return err
		}
		fspecs = append(fspecs, parsed...)
	}

	statusDB, err := status.Load(cfg.StatusFilePath())
	if err != nil {
		return err
	}
	provider := ports.NewPathsProvider(cfg.PortsPath, logger)

	start := time.Now()
	runLog.Info("computing install plan for %d spec(s)", len(fspecs))

	actions, err := plan.CreateFeatureInstallPlan(provider, fspecs, statusDB, logger)
	if err != nil {
		runLog.Error("planning failed: %v", err)
		return err
	}

	removes, installs, already := 0, 0, 0
	for _, action := range actions {
		switch {
		case action.Remove != nil:
			removes++
			logger.Removed(action.Remove.DisplayName())
		case action.Install != nil && action.Install.PlanType == plan.AlreadyInstalled:
			already++
		case action.Install != nil:
			installs++
			logger.Installed(action.Install.DisplayName())
		}
	}
	logger.WriteSummary(removes, installs, already, time.Since(start))

	recordRun(&builddb.RunRecord{
		UUID:      runID,
		Command:   "install",
		Specs:     args,
		Actions:   len(actions),
		StartTime: start,
		EndTime:   time.Now(),
	}, logger)

	return plan.PrintPlan(os.Stdout, actions, plan.PrintOptions{
		Recursive:      installRecurse,
		UseHeadVersion: installHead,
	})
}

// recordRun appends the run to the history database. History is
// best-effort: a broken cache database must not block planning.
func recordRun(rec *builddb.RunRecord, logger *log.Logger) {
	db, err := builddb.OpenDB(cfg.Database.Path)
	if err != nil {
		logger.Warn("cannot open cache database: %v", err)
		return
	}
	defer db.Close()

	if err := db.SaveRun(rec); err != nil {
		logger.Warn("cannot record run: %v", err)
	}
}
