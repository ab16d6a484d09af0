// Package cli — validate.go implements the "convoy validate" command.
//
// The validate command checks configuration files without compiling a
// full deployment (unless a deployment configuration is also supplied).
// It reports the detected dialect, which is useful when migrating
// configurations from fig to the native dialect.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/convoy/internal/config"
	"github.com/mmr-tortoise/convoy/internal/configfile"
)

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <application-config> [deployment-config]",
		Short: "Validate configuration files without deploying",
		Long: `Validate an application configuration file, reporting the detected
dialect and any configuration errors. When a deployment configuration is also
supplied, node→application references are validated as well.

Examples:
  convoy validate application.yml
  convoy validate application.yml deployment.yml`,

		Args: cobra.RangeArgs(1, 2),

		RunE: func(cmd *cobra.Command, args []string) error {
			deploymentPath := ""
			if len(args) == 2 {
				deploymentPath = args[1]
			}
			return runValidate(args[0], deploymentPath)
		},
	}
}

// validationResult is the outcome reported by the validate command.
type validationResult struct {
	// Dialect is "fig" or "native".
	Dialect string `json:"dialect"`

	// Applications is the number of validated applications.
	Applications int `json:"applications"`

	// Nodes is the number of validated nodes; present only when a
	// deployment configuration was supplied.
	Nodes int `json:"nodes,omitempty"`
}

// runValidate is the main logic function for the validate command.
// Any validation failure propagates to Execute, which renders the
// structured configuration error and exits non-zero.
func runValidate(applicationPath, deploymentPath string) error {
	applicationCfg, err := configfile.Load(applicationPath)
	if err != nil {
		return err
	}

	// Dialect detection runs first so the report can name the dialect
	// even though ApplicationsFromConfiguration would detect it again.
	isFig, err := config.IsFigFormat(applicationCfg)
	if err != nil {
		return err
	}
	result := validationResult{Dialect: "native"}
	if isFig {
		result.Dialect = "fig"
	}
	VerboseLog("Detected %s dialect", result.Dialect)

	apps, err := config.ApplicationsFromConfiguration(applicationCfg)
	if err != nil {
		return err
	}
	result.Applications = len(apps)

	if deploymentPath != "" {
		deploymentCfg, err := configfile.Load(deploymentPath)
		if err != nil {
			return err
		}
		deployment, err := config.ModelFromConfiguration(applicationCfg, deploymentCfg)
		if err != nil {
			return err
		}
		result.Nodes = len(deployment.Nodes)
	}

	printValidateResult(result, deploymentPath != "")
	return nil
}

// printValidateResult outputs the validation outcome in text or JSON
// format, depending on the --json flag.
func printValidateResult(result validationResult, withDeployment bool) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Configuration is valid (%s dialect, %d application(s)",
		result.Dialect, result.Applications)
	if withDeployment {
		fmt.Printf(", %d node(s)", result.Nodes)
	}
	fmt.Println(").")
}
