// Package preview delivers composed documents and view changes to the
// browser pages connected over websocket.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/notice"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// sendBuffer bounds how far a slow page may fall behind before it is dropped.
const sendBuffer = 32

// writeWait bounds a single websocket write. It also replaces the deadline
// the HTTP server leaves on the hijacked connection.
const writeWait = 10 * time.Second

// Message is the outgoing websocket message format.
type Message struct {
	Type     string         `json:"type"` // "render", "theme", "layout" or "notice"
	Document string         `json:"document,omitempty"`
	Theme    string         `json:"theme,omitempty"`
	Layout   string         `json:"layout,omitempty"`
	Class    string         `json:"class,omitempty"`
	Notice   *notice.Notice `json:"notice,omitempty"`
}

// Inbound is the incoming websocket message format.
type Inbound struct {
	Type     string `json:"type"` // "edit" or "preference"
	Fragment string `json:"fragment,omitempty"`
	Text     string `json:"text,omitempty"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Editor receives edits typed in a connected page.
type Editor interface {
	OnEdit(ctx context.Context, f fragment.Fragment, text string) error
	OnPreferenceChange(ctx context.Context, name, value string) error
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans render, view and notice messages out to every connected page.
// It is the inline render target, the view-effects adapter and the
// notifier of a session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	log     *zap.Logger

	// Replayed to pages that connect later.
	document string
	theme    fragment.Theme
	layout   fragment.LayoutMode
	rendered bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*client),
		log:     logger,
		theme:   fragment.DefaultTheme,
		layout:  fragment.DefaultLayout,
	}
}

// Render implements the session render target.
func (h *Hub) Render(doc string) {
	h.mu.Lock()
	h.document = doc
	h.rendered = true
	h.mu.Unlock()
	h.broadcast(Message{Type: "render", Document: doc})
}

// ApplyTheme implements the session view effects.
func (h *Hub) ApplyTheme(t fragment.Theme) {
	h.mu.Lock()
	h.theme = t
	h.mu.Unlock()
	h.broadcast(themeMessage(t))
}

// ApplyLayout implements the session view effects.
func (h *Hub) ApplyLayout(m fragment.LayoutMode) {
	h.mu.Lock()
	h.layout = m
	h.mu.Unlock()
	h.broadcast(layoutMessage(m))
}

// Notify implements notice.Notifier.
func (h *Hub) Notify(n notice.Notice) {
	h.broadcast(Message{Type: "notice", Notice: &n})
}

// Document returns the last rendered document.
func (h *Hub) Document() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.document, h.rendered
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every page.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

func themeMessage(t fragment.Theme) Message {
	return Message{Type: "theme", Theme: string(t)}
}

func layoutMessage(m fragment.LayoutMode) Message {
	return Message{Type: "layout", Layout: string(m), Class: m.Class()}
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("encoding preview message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping slow preview client", zap.String("client", id))
			c.close()
			delete(h.clients, id)
		}
	}
}

// ServeWS upgrades the request and streams messages to the page until it
// disconnects. Edits sent by the page are applied to editor.
func (h *Hub) ServeWS(editor Editor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade", zap.Error(err))
			return
		}

		c := &client{id: uuid.New().String(), conn: conn, send: make(chan []byte, sendBuffer)}
		h.register(c)
		h.log.Debug("preview client connected", zap.String("client", c.id))

		done := make(chan struct{})
		go func() {
			defer close(done)
			h.writePump(c)
		}()

		// Edits must not be tied to the upgrade request's lifetime.
		h.readPump(context.WithoutCancel(r.Context()), c, editor)

		h.unregister(c)
		<-done
		conn.Close()
		h.log.Debug("preview client disconnected", zap.String("client", c.id))
	}
}

// register adds c and queues the current state so a new page catches up.
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	initial := []Message{themeMessage(h.theme), layoutMessage(h.layout)}
	if h.rendered {
		initial = append(initial, Message{Type: "render", Document: h.document})
	}
	for _, msg := range initial {
		if data, err := json.Marshal(msg); err == nil {
			c.send <- data
		}
	}
	h.clients[c.id] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
	}
	c.close()
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write", zap.String("client", c.id), zap.Error(err))
			// Unblock the read loop; it unregisters the client.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (h *Hub) readPump(ctx context.Context, c *client, editor Editor) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		if editor == nil {
			continue
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			h.sendError(c, "invalid message format")
			continue
		}
		if err := h.apply(ctx, editor, in); err != nil {
			h.sendError(c, err.Error())
		}
	}
}

func (h *Hub) apply(ctx context.Context, editor Editor, in Inbound) error {
	switch in.Type {
	case "edit":
		f, err := fragment.Parse(in.Fragment)
		if err != nil {
			return err
		}
		return editor.OnEdit(ctx, f, in.Text)
	case "preference":
		return editor.OnPreferenceChange(ctx, in.Name, in.Value)
	default:
		return fmt.Errorf("unknown message type: %s", in.Type)
	}
}

// sendError reports a failure to the page that caused it only.
func (h *Hub) sendError(c *client, message string) {
	n := notice.New("Error: "+message, true, notice.DefaultTTL)
	data, err := json.Marshal(Message{Type: "notice", Notice: &n})
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
