// Package cli — plan.go implements the "convoy plan" command.
//
// The plan command loads an application configuration and a deployment
// configuration, compiles them into the canonical Deployment model, and
// prints the result. It performs no cluster operations — the output is
// exactly what would be handed to the convergence engine.
package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/convoy/internal/config"
	"github.com/mmr-tortoise/convoy/internal/configfile"
	"github.com/mmr-tortoise/convoy/internal/model"
)

// NewPlanCommand creates the "plan" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <application-config> <deployment-config>",
		Short: "Compile configuration files into a deployment model",
		Long: `Validate an application configuration and a deployment configuration,
resolve all inter-application links, and print the compiled deployment model.

The application configuration may be in either the fig dialect or the native
dialect. The deployment configuration maps hostnames to application names.

Examples:
  convoy plan application.yml deployment.yml
  convoy plan application.json deployment.yml --json`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(args[0], args[1])
		},
	}
}

// runPlan is the main logic function for the plan command.
func runPlan(applicationPath, deploymentPath string) error {
	applicationCfg, err := configfile.Load(applicationPath)
	if err != nil {
		return err
	}
	VerboseLog("Loaded application configuration from %s", applicationPath)

	deploymentCfg, err := configfile.Load(deploymentPath)
	if err != nil {
		return err
	}
	VerboseLog("Loaded deployment configuration from %s", deploymentPath)

	deployment, err := config.ModelFromConfiguration(applicationCfg, deploymentCfg)
	if err != nil {
		return err // Execute maps *config.ConfigError to ExitConfigInvalid
	}
	VerboseLog("Compiled deployment with %d node(s)", len(deployment.Nodes))

	printPlanResult(deployment)
	return nil
}

// printPlanResult outputs the compiled deployment in text or JSON format,
// depending on the --json flag.
func printPlanResult(deployment model.Deployment) {
	if IsJSONOutput() {
		printPlanResultJSON(deployment)
	} else {
		printPlanResultText(deployment)
	}
}

// printPlanResultJSON outputs the deployment as structured JSON. The
// model types carry JSON tags, so the model is marshalled directly.
func printPlanResultJSON(deployment model.Deployment) {
	type resultJSON struct {
		Nodes []model.Node `json:"nodes"`
	}

	result := resultJSON{
		// An empty slice instead of nil ensures JSON output shows []
		// instead of null for an empty deployment.
		Nodes: make([]model.Node, 0, len(deployment.Nodes)),
	}
	result.Nodes = append(result.Nodes, deployment.Nodes...)

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printPlanResultText outputs the deployment as a human-readable table
// with one row per application placement:
//
//	NODE         APPLICATION   IMAGE                    PORTS       LINKS
//	node1.local  mysite        clusterhq/mysite:latest  8080:80     -
//	node2.local  postgres      postgres:9.3             5432:5432   -
func printPlanResultText(deployment model.Deployment) {
	if len(deployment.Nodes) == 0 {
		fmt.Println("No nodes in deployment.")
		return
	}

	fmt.Printf("%-20s %-20s %-30s %-15s %s\n",
		"NODE", "APPLICATION", "IMAGE", "PORTS", "LINKS")

	for _, node := range deployment.Nodes {
		for _, app := range node.Applications {
			fmt.Printf("%-20s %-20s %-30s %-15s %s\n",
				node.Hostname,
				app.Name,
				app.Image.String(),
				FormatPorts(app.Ports),
				formatLinks(app.Links),
			)
		}
	}
}

// FormatPorts converts a port set into a comma-separated string of
// "external:internal" mappings, sorted by external port. Returns "-"
// when no ports are mapped.
//
// This function is exported for testing purposes (tested in plan_test.go).
func FormatPorts(ports []model.Port) string {
	if len(ports) == 0 {
		return "-"
	}
	sorted := model.NormalizePorts(ports)
	parts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ",")
}

// formatLinks converts a link set into a comma-separated string of
// "alias:local" entries, sorted. Returns "-" when there are no links.
func formatLinks(links []model.Link) string {
	if len(links) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("%s:%d", l.Alias, l.LocalPort))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
