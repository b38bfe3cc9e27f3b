package websocketPkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotConnected  = errors.New("stream is not connected")
	ErrFrameRejected = errors.New("stream rejected frame")
)

// IStream sends JPEG frames to the vision stream endpoint and returns the
// annotated frames.
type IStream interface {
	SendFrame(frame []byte) ([]byte, error)
	Reconnect() error
	Close() error
}

type streamClient struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	done         chan struct{}
}

type streamError struct {
	Error string `json:"error"`
}

func NewStreamClient(url string, log *logrus.Logger) (IStream, error) {
	client := &streamClient{
		url:          url,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  40 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	if err := client.Reconnect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *streamClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.log.Infof("Connected to vision stream at %s", c.url)

	c.conn = conn
	c.done = make(chan struct{})
	go c.keepAlive(conn, c.done)

	return nil
}

func (c *streamClient) keepAlive(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
			c.mu.Unlock()
			if err != nil {
				c.log.Warnf("Ping failed, stopping keepalive: %v", err)
				return
			}
		}
	}
}

// SendFrame writes one binary frame and waits for the reply. A JSON text reply
// carries the server side error.
func (c *streamClient) SendFrame(frame []byte) ([]byte, error) {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	err := conn.WriteMessage(websocket.BinaryMessage, frame)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	messageType, message, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("error reading annotated frame: %w", err)
	}

	if messageType == websocket.TextMessage {
		var se streamError
		if err := json.Unmarshal(message, &se); err != nil {
			return nil, fmt.Errorf("unexpected text reply: %s", message)
		}
		return nil, fmt.Errorf("%w: %s", ErrFrameRejected, se.Error)
	}

	return message, nil
}

func (c *streamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeTimeout),
	)
	c.closeLocked()
	return err
}

func (c *streamClient) closeLocked() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
