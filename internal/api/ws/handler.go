// Package ws bridges the websocket transport onto the action bus and the
// shell, one frame per message.
package ws

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mirageos/backend/internal/actions"
	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/shared/types"
	"github.com/mirageos/backend/internal/shell"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are enforced by the CORS layer in front.
	},
}

// Handler manages WebSocket connections
type Handler struct {
	dispatcher *actions.Dispatcher
	shell      *shell.Interpreter
	logger     *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(dispatcher *actions.Dispatcher, sh *shell.Interpreter, logger *logging.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, shell: sh, logger: logger}
}

// HandleConnection upgrades the request and serves frames until the peer
// disconnects. Frame types: "action" (raw action-bus message in "payload"),
// "shell" (one command line in "command"), "ping".
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.send(conn, map[string]interface{}{"type": "system", "message": "connected"})

	reqCtx := c.Request.Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope types.WSMessage
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			h.send(conn, map[string]interface{}{"type": "error", "message": "malformed frame"})
			continue
		}

		switch envelope.Type {
		case "action":
			payload, err := sonic.Marshal(envelope.Payload)
			if err == nil {
				err = h.dispatcher.Dispatch(payload)
			}
			if err != nil {
				h.send(conn, map[string]interface{}{"type": "error", "message": err.Error()})
				continue
			}
			h.send(conn, map[string]interface{}{"type": "action_ok"})
		case "shell":
			output := h.shell.Execute(reqCtx, envelope.Command)
			h.send(conn, map[string]interface{}{
				"type":   "shell_output",
				"output": output,
				"cwd":    h.shell.Cwd(),
			})
		case "ping":
			h.send(conn, map[string]interface{}{"type": "pong"})
		default:
			h.send(conn, map[string]interface{}{"type": "error", "message": "unknown frame type"})
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, payload map[string]interface{}) {
	if err := conn.WriteJSON(payload); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
	}
}
