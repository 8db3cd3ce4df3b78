package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htools/sitecheck/api"
	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/validator"
)

//nolint:gochecknoglobals
var newValidator = func(cfg *config.Config) api.Validator {
	return validator.NewFromConfig(cfg)
}

// NewCheckCommand creates new command instance
func NewCheckCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "check <domain>",
		Args:  cobra.ExactArgs(1),
		Short: "runs all checks for a domain and prints the report as JSON",
		RunE:  checkDomain,
	}

	c.Flags().Bool("no-tools", false, "skip the delv and dnsviz output")
	c.Flags().Bool("strict", false, "exit with an error if a check fails")

	return c
}

func checkDomain(cmd *cobra.Command, args []string) error {
	noTools, _ := cmd.Flags().GetBool("no-tools")
	strict, _ := cmd.Flags().GetBool("strict")

	if err := initConfig(); err != nil {
		return err
	}

	if noTools {
		cfg.Tools.Enable = false
	}

	report, err := newValidator(cfg).Validate(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("can't write report: %w", err)
	}

	failed := report.Failed()
	if len(failed) > 0 {
		log.Log().Infof("%d of %d checks failed: %v", len(failed), len(report.Checks), failed)

		if strict {
			return fmt.Errorf("checks failed for '%s': %v", report.Domain, failed)
		}
	}

	return nil
}
