package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	shui "github.com/gamerus9/GhostPrint"
)

// hub, bağlı WebSocket istemcilerine durum güncellemelerini yayınlar.
// Yavaş istemciler yayını geciktirmez; gönderim kuyruğu dolan istemci
// düşürülür.
type hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan shui.StatusUpdate
}

func newHub(log zerolog.Logger) *hub {
	return &hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Servis yerel ağ içindir; origin denetimi yapılmaz.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*wsClient]struct{}),
	}
}

// handleWS, HTTP isteğini WebSocket'e yükseltir ve istemciyi kaydeder.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket yükseltilemedi")
		return
	}

	c := &wsClient{
		conn: conn,
		send: make(chan shui.StatusUpdate, 8),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Int("clients", n).Msg("websocket istemcisi bağlandı")

	go h.writeLoop(c)
	go h.readLoop(c)
}

// broadcast, güncellemeyi tüm istemcilere iletir. Kuyruğu dolu istemci
// o anda düşürülür.
func (h *hub) broadcast(u shui.StatusUpdate) {
	h.mu.Lock()
	var stale []*wsClient
	for c := range h.clients {
		select {
		case c.send <- u:
		default:
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
	h.mu.Unlock()

	for _, c := range stale {
		h.log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("yavaş websocket istemcisi düşürüldü")
	}
}

// writeLoop, kuyruktaki güncellemeleri JSON olarak yazar.
func (h *hub) writeLoop(c *wsClient) {
	for u := range c.send {
		if err := c.conn.WriteJSON(u); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop, istemciden gelen çerçeveleri tüketir; içerikleri yok sayılır.
// Okuma hatası bağlantının koptuğunu gösterir.
func (h *hub) readLoop(c *wsClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

// drop, istemciyi kayıttan çıkarır ve bağlantıyı kapatır. Broadcast
// tarafından zaten düşürülmüş bir istemci için tekrar çağrılması zararsızdır.
func (h *hub) drop(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	c.conn.Close()
	if ok {
		h.log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket istemcisi ayrıldı")
	}
}
