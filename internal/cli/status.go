package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/transport"
	"github.com/soyeahso/relay/internal/version"
)

const probeTimeout = 10 * time.Second

// probeReport collects the results of the concurrent service probes.
type probeReport struct {
	health    *transport.HealthStatus
	healthErr error
	agents    []transport.AgentInfo
	agentsErr error
	hasData   bool
	dataErr   error
}

func probe(ctx context.Context, client *transport.Client, user string) probeReport {
	var r probeReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.health, r.healthErr = client.Health(ctx)
		return nil
	})
	g.Go(func() error {
		r.agents, r.agentsErr = client.ListAgents(ctx)
		return nil
	})
	if user != "" {
		g.Go(func() error {
			r.hasData, r.dataErr = client.CheckSampleData(ctx, user)
			return nil
		})
	}
	_ = g.Wait()
	return r
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show relay configuration and service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Relay %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintf(out, "Logs:    %s\n", paths.Logs)
			fmt.Fprintln(out)

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Fprintln(out, "Config:  not found (using defaults)")
			}

			if t := cfg.Timeout(); t > 0 {
				fmt.Fprintf(out, "API:     %s (header timeout %s)\n", cfg.API.BaseURL, t)
			} else {
				fmt.Fprintf(out, "API:     %s\n", cfg.API.BaseURL)
			}
			if cfg.User.ID != "" {
				fmt.Fprintf(out, "User:    %s\n", cfg.User.ID)
			} else {
				fmt.Fprintln(out, "User:    (not set)")
			}
			fmt.Fprintf(out, "Archive: %s\n", describeArchive(cfg))

			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()
			r := probe(ctx, newClient(cfg), cfg.User.ID)

			fmt.Fprintln(out)
			if r.healthErr != nil {
				fmt.Fprintf(out, "Service: unreachable (%v)\n", r.healthErr)
			} else {
				fmt.Fprintf(out, "Service: %s\n", r.health.Status)
			}
			if r.agentsErr == nil {
				names := make([]string, 0, len(r.agents))
				for _, a := range r.agents {
					names = append(names, a.Name)
				}
				fmt.Fprintf(out, "Agents:  %s\n", strings.Join(names, ", "))
			}
			if cfg.User.ID != "" {
				switch {
				case r.dataErr != nil:
					fmt.Fprintf(out, "Sample:  unknown (%v)\n", r.dataErr)
				case r.hasData:
					fmt.Fprintln(out, "Sample:  loaded")
				default:
					fmt.Fprintln(out, "Sample:  not loaded (run: relay sample-data populate)")
				}
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}

// describeArchive reports the archive mode and, when the database already
// exists, its location and schema version. It never creates the file.
func describeArchive(cfg config.Config) string {
	if cfg.Transcript.Archive != "sqlite" {
		return cfg.Transcript.Archive
	}
	path := archivePath(cfg)
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("sqlite (%s, not created yet)", path)
	}
	db, _, err := openArchive(cfg)
	if err != nil {
		return fmt.Sprintf("sqlite (%s, %v)", path, err)
	}
	defer db.Close()
	v, err := db.SchemaVersion()
	if err != nil {
		return fmt.Sprintf("sqlite (%s, %v)", path, err)
	}
	return fmt.Sprintf("sqlite (%s, schema v%d)", path, v)
}
