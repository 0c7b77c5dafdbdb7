package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slchen/vcpkg/config"
)

var Version = "dev"

var (
	flagConfigDir string
	flagProfile   string
	flagTriplet   string
	flagDebug     bool
	flagYes       bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "vcpkg",
	Short:   "Source-based, triplet-aware C/C++ package manager",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(flagConfigDir, flagProfile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if flagDebug {
			cfg.Debug = true
		}
		if flagYes {
			cfg.YesAll = true
		}
		if flagTriplet != "" {
			cfg.DefaultTriplet = flagTriplet
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigDir, "config-dir", "C", "", "Config base directory")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "default", "Profile to use")
	rootCmd.PersistentFlags().StringVar(&flagTriplet, "triplet", "", "Default triplet for unqualified specs")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Debug verbosity")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to all prompts")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
