package websocketPkg

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// newStreamServer answers "bad" frames with a JSON error and reverses the rest.
func newStreamServer(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(msg) == "bad" {
				_ = conn.WriteJSON(map[string]string{"error": "invalid image"})
				continue
			}
			out := make([]byte, len(msg))
			for i := range msg {
				out[len(msg)-1-i] = msg[i]
			}
			_ = conn.WriteMessage(websocket.BinaryMessage, out)
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSendFrame(t *testing.T) {
	client, err := NewStreamClient(newStreamServer(t), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	got, err := client.SendFrame([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("cba")) {
		t.Fatalf("reply = %q", got)
	}
}

func TestSendFrameServerError(t *testing.T) {
	client, err := NewStreamClient(newStreamServer(t), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.SendFrame([]byte("bad")); !errors.Is(err, ErrFrameRejected) || !strings.Contains(err.Error(), "invalid image") {
		t.Fatalf("expected server error, got %v", err)
	}

	if _, err := client.SendFrame([]byte("ok")); err != nil {
		t.Fatalf("stream should survive a rejected frame: %v", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	client, err := NewStreamClient(newStreamServer(t), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := client.SendFrame([]byte("x")); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := NewStreamClient("ws://127.0.0.1:1/stream", quietLogger()); err == nil {
		t.Fatal("expected dial failure")
	}
}
