package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// boardEvent is one push frame on a board subscription.
type boardEvent struct {
	Type  string        `json:"type"`
	Board *domain.Board `json:"board,omitempty"`
	Tasks []domain.Task `json:"tasks,omitempty"`
}

// SubscribeHandler streams board and task snapshots over a websocket
type SubscribeHandler struct {
	boardService *service.BoardService
	taskService  *service.TaskService
}

// NewSubscribeHandler creates a new subscribe handler
func NewSubscribeHandler(boardService *service.BoardService, taskService *service.TaskService) *SubscribeHandler {
	return &SubscribeHandler{boardService: boardService, taskService: taskService}
}

// Subscribe upgrades the connection and pushes a fresh snapshot after every
// change to the board or its tasks. The first frames carry the current
// state so the client never starts from nothing.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	boardID, ok := pathID(w, r, "boardID")
	if !ok {
		return
	}

	// Access check before the upgrade; after it we can no longer send a
	// proper HTTP error.
	board, err := h.boardService.Get(r.Context(), userID, boardID)
	if err != nil {
		respondError(w, err)
		return
	}
	tasks, err := h.taskService.ListByBoard(r.Context(), userID, boardID)
	if err != nil {
		respondError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	events := make(chan boardEvent, 16)
	events <- boardEvent{Type: "board", Board: board}
	events <- boardEvent{Type: "tasks", Tasks: tasks}

	push := func(ev boardEvent) {
		select {
		case events <- ev:
		default:
			// Slow consumer; the next event carries a full snapshot
			// anyway, so dropping one loses nothing.
		}
	}

	unsubBoard := h.boardService.Subscribe(boardID, func(b *domain.Board) {
		push(boardEvent{Type: "board", Board: b})
	})
	unsubTasks := h.taskService.Subscribe(boardID, func(ts []domain.Task) {
		push(boardEvent{Type: "tasks", Tasks: ts})
	})

	done := make(chan struct{})

	// Read pump: we expect no client messages, but reading is what
	// surfaces close frames and pong responses.
	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unsubBoard()
		unsubTasks()
		conn.Close()
	}()

	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
