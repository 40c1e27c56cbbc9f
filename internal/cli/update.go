package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/version"
	"github.com/dianajengpr/copywritingassistant/internal/updater"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update copywriter to the latest release",
	Run: func(cmd *cobra.Command, args []string) {
		if updateCheckOnly {
			release, newer, err := updater.CheckUpdate(cmd.Context())
			if err != nil {
				fail(err)
			}
			if !newer {
				fmt.Printf("copywriter v%s is up to date\n", version.Version)
				return
			}
			fmt.Printf("v%s is available (current v%s, asset %s)\n", release.Version(), version.Version, updater.PlatformAssetName())
			return
		}

		var installed string
		state := newTaskState("Checking for updates")
		err := runWithSpinner(cmd.Context(), state, func(ctx context.Context) error {
			var err error
			installed, err = updater.Update(ctx)
			return err
		})
		if err != nil {
			fail(err)
		}
		if installed == "" {
			fmt.Printf("copywriter v%s is up to date\n", version.Version)
			return
		}
		color.Green("Updated to v%s", installed)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only report whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
