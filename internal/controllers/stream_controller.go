package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/events"
	"github.com/RealZimboGuy/newsflow/internal/models"

	"github.com/gorilla/websocket"
)

const (
	streamSnapshotLimit = 100
	streamWriteTimeout  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamController pushes the approvals list and its live changes to dashboards over a websocket.
type StreamController struct {
	AuthController
	ApprovalRepo engine.ApprovalRepo
	Broker       *events.Broker
}

func NewStreamController(approvalRepo engine.ApprovalRepo, broker *events.Broker, auth AuthController) *StreamController {
	return &StreamController{ApprovalRepo: approvalRepo, Broker: broker, AuthController: auth}
}

func (c *StreamController) handleApprovalStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// subscribe before the snapshot so nothing written in between is lost
	changes, cancel := c.Broker.Subscribe(events.TableApprovals)
	defer cancel()

	feed := events.NewApprovalFeed()
	rows, err := c.ApprovalRepo.FindRecent(r.Context(), streamSnapshotLimit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load approvals for stream", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "approval store unavailable"),
			time.Now().Add(streamWriteTimeout))
		return
	}
	feed.Load(models.ToApprovalApiList(rows))
	if err := writeStream(conn, events.StreamMessage{Type: events.StreamSnapshot, Approvals: feed.Snapshot()}); err != nil {
		return
	}

	// the client never sends anything useful; reading is how a close is noticed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-changes:
			if !ok {
				return
			}
			if !feed.Apply(ev) {
				continue
			}
			msg := events.StreamMessage{Type: events.StreamChange, Event: &ev, Approvals: feed.Snapshot()}
			if err := writeStream(conn, msg); err != nil {
				slog.DebugContext(r.Context(), "Approval stream closed", "error", err)
				return
			}
		}
	}
}

func writeStream(conn *websocket.Conn, msg events.StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}
