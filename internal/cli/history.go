package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/render"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse transcripts archived locally by relay chat",
		Long:  "Browse transcripts archived locally. Archiving is enabled with transcript.archive: sqlite.",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived chat sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			user := cfg.User.ID
			if all {
				user = ""
			}
			sessions, err := archive.Sessions(user, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No archived sessions.")
				return nil
			}
			for _, s := range sessions {
				conv := s.ConversationID
				if conv == "" {
					conv = "-"
				}
				fmt.Fprintf(out, "  %s  %s  %3d msgs  conversation=%s\n",
					s.ID, s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.MessageCount, conv)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of sessions")
	cmd.Flags().BoolVar(&all, "all", false, "include sessions of every user")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			rec, msgs, err := archive.Session(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s (user %s, started %s)\n\n",
				rec.ID, rec.UserID, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
			// Replies archived mid-reveal are shown in full.
			for i := range msgs {
				msgs[i].Reveal = domain.RevealComplete
			}
			fmt.Fprintln(out, render.PlainTheme().Transcript(msgs, nil))
			return nil
		},
	}
}

func newHistorySearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across archived messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			hits, err := archive.Search(args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			theme := render.PlainTheme()
			for _, h := range hits {
				fmt.Fprintf(out, "[%s] %s\n\n", h.SessionID, theme.Message(h.Message, h.Message.Content))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := archive.DeleteSession(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}
