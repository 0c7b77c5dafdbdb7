package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slchen/vcpkg/status"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages and features",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	statusDB, err := status.Load(cfg.StatusFilePath())
	if err != nil {
		return err
	}

	installed := statusDB.Installed()
	if len(installed) == 0 {
		fmt.Println("No packages are installed")
		return nil
	}

	for _, row := range installed {
		if row.Version != "" {
			fmt.Printf("%-40s %s\n", row.DisplayName(), row.Version)
		} else {
			fmt.Println(row.DisplayName())
		}
	}
	return nil
}
