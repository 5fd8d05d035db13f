package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/devvault/cockpit/internal/interfaces/cli/batch"
	"github.com/devvault/cockpit/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cockpit",
		Short: "Cockpit - project workspace and GitHub connection broker",
		Long:  `Cockpit manages workspace projects, their git working copies, and the OAuth connections that link projects to GitHub accounts.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		batch.NewMigrateTokensCommand(),
		batch.NewBackfillScopesCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
