package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/hooks"
	"github.com/soyeahso/relay/internal/logging"
	"github.com/soyeahso/relay/internal/render"
	"github.com/soyeahso/relay/internal/reveal"
	"github.com/soyeahso/relay/internal/session"
	"github.com/soyeahso/relay/internal/transcript"
	"github.com/soyeahso/relay/internal/tui"
)

// hookDrainTimeout bounds how long chat waits for async hooks on exit.
const hookDrainTimeout = 5 * time.Second

func newChatCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			// The screen belongs to the TUI, so logs go to a file.
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			logFile := cfg.Logging.File
			if logFile == "" {
				logFile = paths.TUILogFile()
			}
			chatLog, closer, err := logging.Open(logging.Options{
				Level: level,
				Style: cfg.Logging.ConsoleStyle,
				File:  logFile,
			})
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer closer.Close()

			hookMgr := hooks.NewManager(chatLog)
			hookMgr.RegisterConfig(cfg.Hooks)

			var store transcript.Store = transcript.NewMemoryStore()
			if cfg.Transcript.Archive == "sqlite" && cfg.User.ID != "" {
				db, archive, err := openArchive(cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				archived, err := archive.NewSession(cfg.User.ID)
				if err != nil {
					return err
				}
				store = transcript.NewTee(store, archived)
				chatLog.Info().Str("session", archived.SessionID()).Msg("archiving transcript")
			}

			bridge := tui.NewBridge()
			ctrl := session.New(session.Options{
				UserID:    cfg.User.ID,
				Client:    newClient(cfg),
				Store:     store,
				Scheduler: reveal.Scheduler{Interval: cfg.RevealInterval()},
				Observer:  bridge,
				Hooks:     hookMgr,
				Log:       chatLog,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hookMgr.Emit(ctx, hooks.EventSessionStart, map[string]any{
				"userId":  cfg.User.ID,
				"baseUrl": cfg.API.BaseURL,
			})
			defer func() {
				st := ctrl.State()
				hookMgr.Emit(context.Background(), hooks.EventSessionEnd, map[string]any{
					"conversationId": st.ConversationID,
					"messages":       len(ctrl.Messages()),
				})
				hookMgr.Drain(hookDrainTimeout)
			}()

			theme := render.DefaultTheme()
			if noColor {
				theme = render.PlainTheme()
			}
			return tui.Run(ctx, ctrl, bridge, theme)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "render without colours")
	return cmd
}
