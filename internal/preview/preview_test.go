package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/notice"
)

type fakeEditor struct {
	mu    sync.Mutex
	edits []string
	prefs []string
	err   error
}

func (e *fakeEditor) OnEdit(_ context.Context, f fragment.Fragment, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.edits = append(e.edits, f.String()+"="+text)
	return nil
}

func (e *fakeEditor) OnPreferenceChange(_ context.Context, name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs = append(e.prefs, name+"="+value)
	return nil
}

func (e *fakeEditor) snapshot() ([]string, []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.edits...), append([]string(nil), e.prefs...)
}

func dial(t *testing.T, h *Hub, editor Editor) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h.ServeWS(editor))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewClientReceivesCurrentState(t *testing.T) {
	h := NewHub(nil)
	h.ApplyTheme(fragment.ThemeDark)
	h.ApplyLayout(fragment.LayoutPreviewRight)
	h.Render("<p>current</p>")

	conn := dial(t, h, nil)

	theme := readMessage(t, conn)
	if theme.Type != "theme" || theme.Theme != "dark" {
		t.Errorf("first message = %+v", theme)
	}
	layout := readMessage(t, conn)
	if layout.Type != "layout" || layout.Layout != "preview-right" || layout.Class != "view-right-preview" {
		t.Errorf("second message = %+v", layout)
	}
	render := readMessage(t, conn)
	if render.Type != "render" || render.Document != "<p>current</p>" {
		t.Errorf("third message = %+v", render)
	}
}

func TestBroadcast(t *testing.T) {
	h := NewHub(nil)
	conn := dial(t, h, nil)
	readMessage(t, conn) // theme
	readMessage(t, conn) // layout
	waitForClients(t, h, 1)

	h.Render("<h1>new</h1>")
	msg := readMessage(t, conn)
	if msg.Type != "render" || msg.Document != "<h1>new</h1>" {
		t.Errorf("render message = %+v", msg)
	}

	h.Notify(notice.New("HTML code copied!", false, 0))
	msg = readMessage(t, conn)
	if msg.Type != "notice" || msg.Notice == nil || msg.Notice.Message != "HTML code copied!" {
		t.Errorf("notice message = %+v", msg)
	}

	doc, ok := h.Document()
	if !ok || doc != "<h1>new</h1>" {
		t.Errorf("Document() = %q, %v", doc, ok)
	}
}

func TestInboundEdits(t *testing.T) {
	h := NewHub(nil)
	editor := &fakeEditor{}
	conn := dial(t, h, editor)
	readMessage(t, conn)
	readMessage(t, conn)

	send := func(in Inbound) {
		data, _ := json.Marshal(in)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	send(Inbound{Type: "edit", Fragment: "css", Text: "p{}"})
	send(Inbound{Type: "preference", Name: "theme", Value: "dark"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		edits, prefs := editor.snapshot()
		if len(edits) == 1 && len(prefs) == 1 {
			if edits[0] != "css=p{}" || prefs[0] != "theme=dark" {
				t.Errorf("edits=%v prefs=%v", edits, prefs)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("edits not applied: %v %v", edits, prefs)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInboundErrorsGoToSender(t *testing.T) {
	h := NewHub(nil)
	editor := &fakeEditor{err: errors.New("disk full")}
	conn := dial(t, h, editor)
	readMessage(t, conn)
	readMessage(t, conn)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"edit","fragment":"html","text":"x"}`))
	msg := readMessage(t, conn)
	if msg.Type != "notice" || !msg.Notice.Error || !strings.Contains(msg.Notice.Message, "disk full") {
		t.Errorf("unexpected message %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"edit","fragment":"sass","text":"x"}`))
	msg = readMessage(t, conn)
	if !strings.Contains(msg.Notice.Message, "unknown fragment") {
		t.Errorf("unexpected message %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
	msg = readMessage(t, conn)
	if !strings.Contains(msg.Notice.Message, "invalid message format") {
		t.Errorf("unexpected message %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resize"}`))
	msg = readMessage(t, conn)
	if !strings.Contains(msg.Notice.Message, "unknown message type") {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	h := NewHub(nil)
	conn := dial(t, h, nil)
	waitForClients(t, h, 1)
	conn.Close()
	waitForClients(t, h, 0)
}

func TestDetachedTakeOnce(t *testing.T) {
	d := NewDetached(time.Minute)
	id := d.Put("<p>once</p>")

	doc, ok := d.Take(id)
	if !ok || doc != "<p>once</p>" {
		t.Fatalf("Take = %q, %v", doc, ok)
	}
	if _, ok := d.Take(id); ok {
		t.Error("second Take should fail")
	}
	if _, ok := d.Take("missing"); ok {
		t.Error("Take of unknown id should fail")
	}
}

func TestDetachedExpiry(t *testing.T) {
	d := NewDetached(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	id := d.Put("<p>old</p>")
	now = now.Add(2 * time.Minute)
	if _, ok := d.Take(id); ok {
		t.Error("expired document should not be served")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestDetachedBounded(t *testing.T) {
	d := NewDetached(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	first := d.Put("first")
	for i := 0; i < maxDetached; i++ {
		d.Put("doc")
	}
	if d.Len() != maxDetached {
		t.Errorf("Len = %d, want %d", d.Len(), maxDetached)
	}
	if _, ok := d.Take(first); ok {
		t.Error("oldest entry should have been evicted")
	}
}
