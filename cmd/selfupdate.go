package cmd

import (
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// repositorySlug identifies the GitHub repository releases are published to.
const repositorySlug = "x64dbg-mcp/x64dbg-mcp"

// newSelfUpdateCmd creates the selfupdate command
func newSelfUpdateCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "selfupdate",
		Short: "Update x64dbg-mcp to the latest released version",
		Long: `The selfupdate command checks GitHub releases for a newer version
and replaces the running binary in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
			if err != nil {
				return fmt.Errorf("failed to detect latest version: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", repositorySlug)
			}

			if latest.LessOrEqual(version) {
				logger.Info("Current version %s is up to date", version)
				return nil
			}

			logger.Info("Found newer version: %s (current: %s)", latest.Version(), version)
			if checkOnly {
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("could not locate executable: %w", err)
			}

			if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			logger.Success("Updated to version %s", latest.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for a newer version, do not install it")

	return cmd
}

func init() {
	rootCmd.AddCommand(newSelfUpdateCmd())
}
