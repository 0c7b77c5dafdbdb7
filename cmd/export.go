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
	"github.com/slchen/vcpkg/util"
)

var exportCmd = &cobra.Command{
	Use:   "export <pkg:triplet>...",
	Short: "Compute and display the export plan for the given packages",
	Long: `Compute the export ordering for the requested packages and their
dependencies. Packages with a cached binary build export directly;
the rest must be built first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	// The binary cache is optional; without it every port exports from
	// source.
	var cache plan.BinaryCache
	if util.FileExists(cfg.Database.Path) {
		db, err := builddb.OpenDB(cfg.Database.Path)
		if err != nil {
			logger.Warn("cannot open cache database: %v", err)
		} else {
			defer db.Close()
			cache = db
		}
	}

	start := time.Now()
	actions, err := plan.CreateExportPlan(provider, cache, pspecs, statusDB)
	if err != nil {
		runLog.Error("planning failed: %v", err)
		return err
	}
	runLog.Info("export plan contains %d package(s)", len(actions))

	recordRun(&builddb.RunRecord{
		UUID:      runID,
		Command:   "export",
		Specs:     args,
		Actions:   len(actions),
		StartTime: start,
		EndTime:   time.Now(),
	}, logger)

	plan.PrintExportPlan(os.Stdout, actions, plan.PrintOptions{})
	return nil
}
