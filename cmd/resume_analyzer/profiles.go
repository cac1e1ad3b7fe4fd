package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/observability"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect job profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job profiles",
	Long:  `List the default job profiles followed by user-created ones. Defaults are marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one job profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesJSON bool

func init() {
	profilesCmd.PersistentFlags().BoolVar(&profilesJSON, "json", false, "Print JSON instead of text")
	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, _ []string) error {
	a, err := newCLIApp(cmd, appOptions{NoNarrative: true})
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.store.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if profilesJSON {
		return writeJSON(cmd, list)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobProfiles(list)
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	a, err := newCLIApp(cmd, appOptions{NoNarrative: true})
	if err != nil {
		return err
	}
	defer a.Close()

	profile, err := a.store.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if profilesJSON {
		return writeJSON(cmd, profile)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobProfile(&profile)
	return nil
}

// newCLIApp wires the app for a one-shot command, logging to stderr.
func newCLIApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.NewWithOutput(cfg.Log.JSON, cfg.Log.Debug, "stderr")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newApp(commandContext(cmd), cfg, log, opts)
}

func writeJSON(cmd *cobra.Command, value any) error {
	return encodeJSON(cmd.OutOrStdout(), value)
}
