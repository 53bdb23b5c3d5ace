package transport

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"talk-it/contract"
	"talk-it/domain"
	"talk-it/wire"
)

// policyViolation is the close code used for every admission rejection.
const policyViolation = 1008

// Handler upgrades HTTP requests to WebSocket connections and drives the
// core: admission checks, registration, message dispatch, and at-most-once
// disconnect handling. One goroutine (the HTTP handler's) serves each
// connection's inbound events.
type Handler struct {
	log       *slog.Logger
	limiter   contract.IRateLimiter
	blockList contract.IBlockList
	registry  contract.ISessionRegistry
	room      contract.IRoomCoordinator
	upgrader  websocket.Upgrader
}

func NewHandler(log *slog.Logger, limiter contract.IRateLimiter,
	blockList contract.IBlockList, registry contract.ISessionRegistry,
	room contract.IRoomCoordinator) *Handler {
	return &Handler{
		log:       log,
		limiter:   limiter,
		blockList: blockList,
		registry:  registry,
		room:      room,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Anonymous public chat; origin checking adds nothing here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn := newConn(ws)

	ip := ExtractIP(r.RemoteAddr)
	h.log.Info("New connection attempt", "ip", ip)

	if h.blockList.IsBlocked(ip) {
		h.log.Warn("Connection attempt from blocked IP", "ip", ip)
		_ = conn.Close(policyViolation, "Your IP is blocked.")
		return
	}
	if !h.limiter.AllowConnection(ip) {
		_ = conn.Close(policyViolation, "Rate limit exceeded.")
		return
	}

	p := h.registry.Add(conn, ip)
	h.room.OnJoin(p)
	h.sendUserList(conn)
	h.broadcastUserList()

	h.readLoop(conn, p)
}

func (h *Handler) readLoop(conn *Conn, p *domain.Participant) {
	defer h.disconnect(conn)

	for {
		data, err := conn.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("Connection error", "name", p.DisplayName, "error", err)
			}
			return
		}
		h.handleFrame(conn, data)
	}
}

// handleFrame processes one inbound frame. Unknown sessions and rate-limited
// sources are dropped without closing the connection.
func (h *Handler) handleFrame(conn contract.Conn, data []byte) {
	p, ok := h.registry.GetByConn(conn)
	if !ok {
		h.log.Warn("Message from unknown session", "remote", conn.RemoteAddr())
		return
	}

	if !h.limiter.AllowMessage(p.IPAddress) {
		return
	}

	in, err := wire.DecodeInbound(data)
	if err != nil {
		h.log.Warn("Malformed frame", "from", p.DisplayName, "error", err)
		return
	}

	if in.IsUserListRequest() {
		h.log.Info("User list requested", "by", p.DisplayName)
		h.sendUserList(conn)
		return
	}

	if res := h.room.OnMessage(p, in.Content); !res.IsOk() {
		h.log.Debug("Message rejected", "from", p.DisplayName, "reason", res.Detail())
	}
}

// disconnect funnels both normal closes and transport errors through one
// at-most-once path: the registry removal decides whether a leave is
// announced.
func (h *Handler) disconnect(conn *Conn) {
	p, ok := h.registry.Remove(conn)
	_ = conn.Close(websocket.CloseNormalClosure, "")
	if !ok {
		return
	}
	h.room.OnLeave(p)
	h.broadcastUserList()
}

func (h *Handler) sendUserList(conn contract.Conn) {
	payload, err := wire.EncodeUserList(h.registry.All())
	if err != nil {
		h.log.Error("Failed to encode user list", "error", err)
		return
	}
	if err := conn.Send(payload); err != nil {
		h.log.Error("Failed to send user list", "error", err)
	}
}

func (h *Handler) broadcastUserList() {
	sessions := h.registry.All()
	payload, err := wire.EncodeUserList(sessions)
	if err != nil {
		h.log.Error("Failed to encode user list", "error", err)
		return
	}
	for _, sess := range sessions {
		if err := sess.Conn.Send(payload); err != nil {
			h.log.Error("Failed to send user list",
				"to", sess.Participant.DisplayName, "error", err)
		}
	}
}
