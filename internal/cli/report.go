// Package cli — report.go implements the "convoy report" command.
//
// The report command inspects the local Docker daemon and emits the
// node's observed application set in the native configuration dialect.
// The output of this command from every node, keyed by hostname, is what
// CurrentFromConfiguration consumes to rebuild the observed cluster
// model. The projection is lossy: image identity and volume mountpoints
// are reported as unknown.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/convoy/internal/config"
	"github.com/mmr-tortoise/convoy/internal/inspect"
)

// NewReportCommand creates the "report" cobra command.
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Report this node's observed state as configuration YAML",
		Long: `Query the local Docker daemon for running containers and print them as
an application configuration in the native dialect.

The report is intentionally lossy: the image an application was launched from
and the real mountpoint of its volume are not recoverable from runtime
inspection, so both are reported as unknown. Ports and links are faithful.

Examples:
  convoy report`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context())
		},
	}
}

// runReport is the main logic function for the report command.
func runReport(ctx context.Context) error {
	cli, err := inspect.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	apps, err := inspect.Snapshot(ctx, cli)
	if err != nil {
		return err
	}
	VerboseLog("Observed %d running application(s)", len(apps))

	// The report is always YAML, --json or not: it is a configuration
	// document for CurrentFromConfiguration, not command output in the
	// usual sense.
	text, err := config.ConfigurationToYAML(apps)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
