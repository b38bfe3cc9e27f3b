package visionHandler

import (
	"VisionAgent/internal/api/vision"
	contextPkg "VisionAgent/pkg/context"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// handleStreamWebSocket answers every binary JPEG frame with the annotated
// frame. Frames are processed one at a time, in arrival order.
func (h *VisionHandler) handleStreamWebSocket(c *websocket.Conn) {
	h.log.Info("Vision stream client connected")
	defer h.log.Info("Vision stream client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	requestID, _ := c.Locals(contextPkg.RequestIDHeader).(string)
	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Vision stream error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), inferenceTimeout)
		result, err := h.visionService.Annotate(ctx, message)
		cancel()

		if err != nil {
			h.log.Errorf("Error annotating frame: %v", err)
			if writeErr := c.WriteJSON(vision.StreamError{Error: err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteMessage(websocket.BinaryMessage, result.Image); err != nil {
			h.log.Errorf("Error writing annotated frame: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}
