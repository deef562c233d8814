package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/render"
	"github.com/soyeahso/relay/internal/transport"
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "List, show and delete conversations stored by the service",
	}

	cmd.AddCommand(newConversationsListCmd())
	cmd.AddCommand(newConversationsShowCmd())
	cmd.AddCommand(newConversationsDeleteCmd())
	return cmd
}

func newConversationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, err := requireUser(cfg)
			if err != nil {
				return err
			}

			list, err := newClient(cfg).ListConversations(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list.Conversations) == 0 {
				fmt.Fprintln(out, "No conversations.")
				return nil
			}
			for _, c := range list.Conversations {
				fmt.Fprintf(out, "  %s  %3d msgs  %s  %s\n", c.ID, len(c.Messages), c.UpdatedAt, c.Title)
			}
			fmt.Fprintf(out, "\n%d conversation(s)\n", list.Total)
			return nil
		},
	}
}

func newConversationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			conv, err := newClient(cfg).GetConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", conv.Title)
			fmt.Fprintln(cmd.OutOrStdout(), render.PlainTheme().Transcript(remoteTranscript(conv.Messages), nil))
			return nil
		},
	}
}

func newConversationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := newClient(cfg).DeleteConversation(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// remoteTranscript converts stored messages into completed transcript entries.
func remoteTranscript(msgs []transport.RemoteMessage) []domain.Message {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		var msg domain.Message
		switch domain.Role(m.Role) {
		case domain.RoleUser:
			msg = domain.NewUserMessage(m.Content)
		case domain.RoleSystem:
			msg = domain.NewSystemMessage(m.Content)
		default:
			msg = domain.NewAssistantMessage(m.Content, m.Agent)
			msg.Reveal = domain.RevealComplete
		}
		if m.ID != "" {
			msg.ID = m.ID
		}
		if ts, err := time.Parse(time.RFC3339Nano, m.CreatedAt); err == nil {
			msg.Timestamp = ts.Local()
		}
		out = append(out, msg)
	}
	return out
}
