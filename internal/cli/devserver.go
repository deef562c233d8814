package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tillberg/autorestart"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/hooks"
	"github.com/soyeahso/relay/internal/stubserver"
)

func newDevServerCmd() *cobra.Command {
	var (
		port        int
		bind        string
		chunkDelay  time.Duration
		autoRestart bool
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run a local stand-in for the relay service",
		Long: "Run an in-memory relay service that routes by keyword and answers with canned\n" +
			"replies. Point api.baseUrl at the printed URL to try relay without a backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.DevServer.Port = port
			}
			if bind != "" {
				cfg.DevServer.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if autoRestart {
				go autorestart.RestartOnChange()
				log.Info().Msg("restarting when the binary changes")
			}

			hookMgr := hooks.NewManager(log)
			if n := hookMgr.RegisterConfig(cfg.Hooks); n > 0 {
				log.Info().Int("hooks", n).Msg("command hooks registered")
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := stubserver.New(cfg.DevServer, log,
				stubserver.WithHooks(hookMgr),
				stubserver.WithChunkDelay(chunkDelay),
			)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override dev server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")
	cmd.Flags().DurationVar(&chunkDelay, "chunk-delay", stubserver.DefaultChunkDelay, "pause between streamed chunks")
	cmd.Flags().BoolVar(&autoRestart, "autorestart", false, "restart when the relay binary is rebuilt")

	return cmd
}
