// Package session drives one chat session: it sends user input to the relay
// service, records every turn in the transcript and animates replies.
package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/hooks"
	"github.com/soyeahso/relay/internal/logging"
	"github.com/soyeahso/relay/internal/reveal"
	"github.com/soyeahso/relay/internal/transcript"
	"github.com/soyeahso/relay/internal/transport"
)

// SendFailureNotice is appended to the transcript when a send fails for any
// reason other than a missing identity.
const SendFailureNotice = "Failed to send message. Please try again."

// Sender performs the send-message exchange.
type Sender interface {
	SendMessage(ctx context.Context, req transport.SendRequest) (*transport.SendResponse, error)
}

// Outcome describes what HandleSend did with its input.
type Outcome int

const (
	// OutcomeIgnored means nothing was sent and the transcript is unchanged.
	OutcomeIgnored Outcome = iota
	// OutcomeDelivered means the reply was appended and its reveal started.
	OutcomeDelivered
	// OutcomeFailed means the failure notice was appended.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeFailed:
		return "failed"
	default:
		return "ignored"
	}
}

// Observer is told about transcript changes. Calls arrive from the goroutine
// that caused them: HandleSend's caller for appends, a reveal goroutine for
// reveal progress.
type Observer interface {
	MessageAppended(msg domain.Message)
	RevealProgress(id, prefix string)
	RevealComplete(id string)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) MessageAppended(domain.Message) {}
func (NopObserver) RevealProgress(string, string)  {}
func (NopObserver) RevealComplete(string)          {}

// Options configures a Controller.
type Options struct {
	UserID string
	Client Sender
	// SampleData defaults to Client when Client also implements it.
	SampleData SampleDataClient
	Store      transcript.Store
	Scheduler  reveal.Scheduler
	Observer   Observer
	Hooks      *hooks.Manager
	Log        *logging.Logger
}

// State is a snapshot of the session.
type State struct {
	UserID         string
	ConversationID string
	CurrentAgent   domain.AgentType
	Routing        *domain.Routing
	Sending        bool
	PopulatingData bool
	SampleData     SampleDataState
}

// CanSend reports whether a new message may be submitted.
func (s State) CanSend() bool {
	return s.UserID != "" && !s.Sending
}

// Controller is the state machine for one chat session. HandleSend may be
// called from any goroutine; at most one send is in flight at a time.
type Controller struct {
	userID   string
	client   Sender
	sample   SampleDataClient
	store    transcript.Store
	tracker  *reveal.Tracker
	observer Observer
	hooks    *hooks.Manager
	log      *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	sending    atomic.Bool
	populating atomic.Bool
	// turn is held by a send or a sample-data population so that their
	// transcript entries never interleave.
	turn sync.Mutex

	mu             sync.RWMutex
	conversationID string
	routing        *domain.Routing
	sampleData     SampleDataState
}

// New creates a Controller. Store defaults to an in-memory transcript.
func New(opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = transcript.NewMemoryStore()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	if opts.SampleData == nil {
		if sd, ok := opts.Client.(SampleDataClient); ok {
			opts.SampleData = sd
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		userID:   opts.UserID,
		client:   opts.Client,
		sample:   opts.SampleData,
		store:    opts.Store,
		tracker:  reveal.NewTracker(opts.Scheduler),
		observer: opts.Observer,
		hooks:    opts.Hooks,
		log:      opts.Log.Sub("session"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := State{
		UserID:         c.userID,
		ConversationID: c.conversationID,
		Sending:        c.sending.Load(),
		PopulatingData: c.populating.Load(),
		SampleData:     c.sampleData,
	}
	if c.routing != nil {
		r := *c.routing
		st.Routing = &r
		st.CurrentAgent = r.Agent
	}
	return st
}

// Messages returns the transcript in order.
func (c *Controller) Messages() []domain.Message {
	return c.store.List()
}

// ActiveReveals returns how many replies are still being revealed.
func (c *Controller) ActiveReveals() int {
	return c.tracker.Active()
}

// HandleSend submits text. Blank text and sends attempted while another is in
// flight are ignored. A send made during a sample-data population waits for it
// to finish. A missing user identity returns
// transport.ErrUnauthenticated without touching the transcript. Every other
// failure is recorded as SendFailureNotice and reported as OutcomeFailed.
func (c *Controller) HandleSend(ctx context.Context, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return OutcomeIgnored, nil
	}
	if c.userID == "" {
		return OutcomeIgnored, transport.ErrUnauthenticated
	}
	if !c.sending.CompareAndSwap(false, true) {
		c.log.Debug().Msg("send already in flight, ignoring input")
		return OutcomeIgnored, nil
	}
	defer c.sending.Store(false)

	c.turn.Lock()
	defer c.turn.Unlock()

	c.append(domain.NewUserMessage(text))

	req := transport.SendRequest{
		UserID:         c.userID,
		Message:        text,
		ConversationID: c.conversationIDSnapshot(),
	}
	c.emit(hooks.EventMessageSending, map[string]any{
		"message":        text,
		"conversationId": req.ConversationID,
	})

	resp, err := c.client.SendMessage(ctx, req)
	if err != nil {
		c.log.Warn().Err(err).Str("conversation", req.ConversationID).Msg("send failed")
		c.append(domain.NewSystemMessage(SendFailureNotice))
		c.emit(hooks.EventSendFailed, map[string]any{
			"message": text,
			"error":   err.Error(),
		})
		return OutcomeFailed, nil
	}

	c.recordRouting(resp)

	if resp.Routing.Reasoning != "" {
		c.append(domain.NewSystemMessage(resp.Routing.Reasoning))
	}
	reply := domain.NewAssistantMessage(resp.Message.Content, resp.Routing.Agent)
	c.append(reply)
	c.startReveal(reply)

	c.log.Info().
		Str("conversation", c.conversationIDSnapshot()).
		Str("agent", resp.Routing.Agent.String()).
		Float64("confidence", resp.Routing.Confidence).
		Msg("reply received")
	c.emit(hooks.EventMessageReceived, map[string]any{
		"conversationId": c.conversationIDSnapshot(),
		"agentType":      string(resp.Routing.Agent),
		"reasoning":      resp.Routing.Reasoning,
		"confidence":     resp.Routing.Confidence,
		"content":        resp.Message.Content,
	})
	return OutcomeDelivered, nil
}

// Close cancels every pending reveal. Replies cut short stay revealing.
func (c *Controller) Close() {
	c.tracker.CancelAll()
	c.cancel()
}

func (c *Controller) conversationIDSnapshot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conversationID
}

// recordRouting pins the conversation on first success and remembers the
// routing decision for the agent indicator.
func (c *Controller) recordRouting(resp *transport.SendResponse) {
	routing := resp.Routing

	c.mu.Lock()
	pinned := false
	if c.conversationID == "" && resp.ConversationID != "" {
		c.conversationID = resp.ConversationID
		pinned = true
	}
	c.routing = &routing
	c.mu.Unlock()

	if pinned {
		c.log.Debug().Str("conversation", resp.ConversationID).Msg("conversation pinned")
		if b, ok := c.store.(transcript.ConversationBinder); ok {
			b.BindConversation(resp.ConversationID)
		}
	}
}

func (c *Controller) append(msg domain.Message) {
	c.store.Append(msg)
	c.observer.MessageAppended(msg)
}

func (c *Controller) startReveal(msg domain.Message) {
	id := msg.ID
	c.tracker.Start(c.ctx, id, msg.Content,
		func(prefix string) {
			c.observer.RevealProgress(id, prefix)
		},
		func() {
			c.store.MarkComplete(id)
			c.observer.RevealComplete(id)
			c.emit(hooks.EventRevealComplete, map[string]any{
				"messageId": id,
				"agentType": string(msg.Agent),
			})
		},
	)
}

func (c *Controller) emit(event string, data map[string]any) {
	if c.hooks == nil {
		return
	}
	c.hooks.EmitAsync(c.ctx, event, data)
}
