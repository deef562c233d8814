package cli

import (
	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	userID   string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay: chat with a multi-agent customer support service",
		Long: "Relay is a terminal client for a multi-agent support service. A router sends each\n" +
			"message to the order, billing or support specialist and relay shows the reply.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.relay/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "user id (overrides user.id and RELAY_USER_ID)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newMessageCmd())
	cmd.AddCommand(newConversationsCmd())
	cmd.AddCommand(newAgentsCmd())
	cmd.AddCommand(newSampleDataCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newDevServerCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
