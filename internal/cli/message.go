package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/render"
	"github.com/soyeahso/relay/internal/reveal"
	"github.com/soyeahso/relay/internal/transport"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send one-off messages",
	}

	cmd.AddCommand(newMessageSendCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var (
		conversationID string
		stream         bool
	)

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message to the relay service and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, err := requireUser(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newClient(cfg)
			req := transport.SendRequest{
				UserID:         user,
				Message:        message,
				ConversationID: conversationID,
			}

			if stream {
				return streamReply(ctx, client, req, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			resp, err := client.SendMessage(ctx, req)
			if err != nil {
				return err
			}
			printRouting(cmd.ErrOrStderr(), resp.ConversationID, resp.Routing)
			fmt.Fprintln(cmd.OutOrStdout(), render.PlainTheme().Blocks(reveal.Format(resp.Message.Content)))
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "continue an existing conversation")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream the reply as it is generated")

	return cmd
}

// streamReply prints chunks as they arrive. The reply is printed raw since
// markup may be split across chunks.
func streamReply(ctx context.Context, client *transport.Client, req transport.SendRequest, out, errOut io.Writer) error {
	var failure error
	err := client.StreamMessage(ctx, req, func(f transport.Frame) {
		switch f.Type {
		case transport.FrameRouting:
			var rf transport.RoutingFrame
			if err := f.Decode(&rf); err == nil {
				printRouting(errOut, rf.ConversationID, rf.Routing)
			}
		case transport.FrameChunk:
			var cf transport.ChunkFrame
			if err := f.Decode(&cf); err == nil {
				fmt.Fprint(out, cf.Content)
			}
		case transport.FrameDone:
			fmt.Fprintln(out)
		case transport.FrameError:
			var ef transport.ErrorFrame
			_ = f.Decode(&ef)
			failure = errors.Errorf("stream failed: %s", ef.Error)
		}
	})
	if err != nil {
		return err
	}
	return failure
}

func printRouting(w io.Writer, conversationID string, r domain.Routing) {
	style := render.Agent(r.Agent)
	fmt.Fprintf(w, "%s %s (%.0f%%) conversation=%s\n", style.Icon, style.Label, r.Confidence*100, conversationID)
	if r.Reasoning != "" {
		fmt.Fprintf(w, "  %s\n", r.Reasoning)
	}
}
