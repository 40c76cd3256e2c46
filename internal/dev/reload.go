package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/pagewire/pkg/render"
)

// ReloadPath is where the reload client connects.
const ReloadPath = "/_pagewire/reload"

// MessageVersion announces a new asset version.
const MessageVersion = "version"

// Message is sent to browsers over the reload socket.
type Message struct {
	Type    string `json:"type"`
	Version string `json:"version,omitempty"`
}

// Reloader keeps the reload sockets of open browsers and broadcasts new
// asset versions to them.
type Reloader struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}

	// writeMu serializes writers; a gorilla connection allows one.
	writeMu sync.Mutex
}

// NewReloader creates a Reloader. A nil logger uses slog.Default.
func NewReloader(logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		logger:  logger.With("component", "dev.reload"),
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev only: the page and the socket may sit on different ports.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and holds the socket until the browser
// goes away.
func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	r.mu.Lock()
	r.clients[conn] = struct{}{}
	r.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	r.drop(conn)
}

// Notify sends version to every connected browser.
func (r *Reloader) Notify(version string) {
	data, err := json.Marshal(Message{Type: MessageVersion, Version: version})
	if err != nil {
		return
	}

	r.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			r.drop(c)
		}
	}
	r.logger.Info("asset version pushed", "version", version, "clients", len(clients))
}

func (r *Reloader) drop(c *websocket.Conn) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
	c.Close()
}

// ClientCount returns the number of connected browsers.
func (r *Reloader) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close disconnects every browser.
func (r *Reloader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.Close()
		delete(r.clients, c)
	}
}

// Extender adds the reload client to HTML shells rendered in dev mode.
func (r *Reloader) Extender() render.Extender {
	return func(s *render.Shell) {
		if !s.Dev {
			return
		}
		s.AddScript(render.ScriptTag{Inline: ClientScript})
	}
}

// ClientScript reconnects with backoff and reloads the page when the server
// announces a version different from the one the page booted with.
const ClientScript = `(function () {
  var el = document.querySelector('[data-page]');
  var booted = el ? JSON.parse(el.getAttribute('data-page')).version : '';
  var delay = 1000;
  function connect() {
    var scheme = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(scheme + '//' + location.host + '` + ReloadPath + `');
    ws.onopen = function () { delay = 1000; };
    ws.onmessage = function (e) {
      var msg;
      try { msg = JSON.parse(e.data); } catch (err) { return; }
      if (msg.type === '` + MessageVersion + `' && msg.version !== booted) {
        location.reload();
      }
    };
    ws.onclose = function () {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 30000);
    };
  }
  connect();
})();`
