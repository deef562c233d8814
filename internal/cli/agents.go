package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/domain"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect the specialists the service routes to",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsCapabilitiesCmd())
	return cmd
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			agents, err := newClient(cfg).ListAgents(cmd.Context())
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents.")
				return nil
			}
			for _, a := range agents {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %-16s %s\n", a.Type, a.Name, a.Description)
			}
			return nil
		},
	}
}

func newAgentsCapabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities <type>",
		Short: "Show what an agent can do (order, billing, support)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := domain.ParseAgentType(strings.ToLower(args[0]))
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			caps, err := newClient(cfg).AgentCapabilities(cmd.Context(), agent)
			if err != nil {
				return err
			}
			for _, c := range caps.Capabilities {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
			}
			return nil
		},
	}
}
