package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/transport"
)

const userHeader = "x-user-id"

// registerRoutes mounts every endpoint under /api.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/chat/messages", s.handleSend)
	mux.HandleFunc("GET /api/chat/conversations", s.handleListConversations)
	mux.HandleFunc("GET /api/chat/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/chat/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /api/agents", s.handleAgents)
	mux.HandleFunc("GET /api/agents/{type}/capabilities", s.handleCapabilities)
	mux.HandleFunc("GET /api/user/check-sample-data", s.handleCheckSampleData)
	mux.HandleFunc("POST /api/user/populate-sample-data", s.handlePopulateSampleData)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transport.HealthStatus{
		Status:    "ok",
		Timestamp: s.state.stamp(),
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req transport.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	routing := Route(req.Message)
	reply := Reply(routing.Agent, req.Message)
	convID, msg := s.state.record(req.UserID, req.ConversationID, req.Message, reply, routing)

	s.log.Debug().
		Str("conversation", convID).
		Str("agent", routing.Agent.String()).
		Bool("stream", req.Stream).
		Msg("message routed")

	if !req.Stream {
		writeJSON(w, http.StatusOK, transport.SendResponse{
			ConversationID: convID,
			Message:        msg,
			Routing:        routing,
		})
		return
	}
	s.stream(w, r, convID, routing, msg)
}

type routingFrame struct {
	Type string `json:"type"`
	transport.RoutingFrame
}

type chunkFrame struct {
	Type string `json:"type"`
	transport.ChunkFrame
}

type doneFrame struct {
	Type string `json:"type"`
	transport.DoneFrame
}

// stream writes the reply as newline-delimited JSON frames: one routing
// frame, one chunk per word, then a done frame.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, convID string, routing domain.Routing, msg transport.RemoteMessage) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	send := func(frame any) bool {
		if err := enc.Encode(frame); err != nil {
			s.log.Debug().Err(err).Msg("stream write failed")
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		return true
	}

	if !send(routingFrame{transport.FrameRouting, transport.RoutingFrame{ConversationID: convID, Routing: routing}}) {
		return
	}
	for _, chunk := range chunks(msg.Content) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.chunkDelay):
		}
		if !send(chunkFrame{transport.FrameChunk, transport.ChunkFrame{Content: chunk}}) {
			return
		}
	}
	send(doneFrame{transport.FrameDone, transport.DoneFrame{ConversationID: convID, Message: msg}})
}

// chunks splits text after each space so the pieces concatenate back to it.
func chunks(text string) []string {
	var out []string
	for text != "" {
		i := strings.IndexByte(text, ' ')
		if i < 0 {
			out = append(out, text)
			break
		}
		out = append(out, text[:i+1])
		text = text[i+1:]
	}
	return out
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	convs := s.state.list(userID)
	writeJSON(w, http.StatusOK, transport.ConversationList{Conversations: convs, Total: len(convs)})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.state.conversation(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if !s.state.delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	agents := make([]transport.AgentInfo, 0, len(specialists))
	for _, sp := range specialists {
		agents = append(agents, transport.AgentInfo{Type: sp.agent, Name: sp.name, Description: sp.desc})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	sp, ok := lookup(domain.AgentType(r.PathValue("type")))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown agent type")
		return
	}
	writeJSON(w, http.StatusOK, transport.AgentCapabilities{Agent: sp.agent, Capabilities: sp.tools})
}

func (s *Server) handleCheckSampleData(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasData": s.state.hasSampleData(userID)})
}

func (s *Server) handlePopulateSampleData(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	s.state.populate(userID)
	writeJSON(w, http.StatusOK, transport.PopulateResult{
		Message:  "Sample data populated successfully",
		Orders:   3,
		Invoices: 3,
	})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found: "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
