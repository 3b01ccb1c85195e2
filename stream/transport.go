package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finlight/finlight-go/errors"
)

// wsConn wraps a gorilla/websocket connection with the write
// serialization gorilla/websocket requires (at most one concurrent
// writer) and the close-code bookkeeping the supervisor loop needs.
// Grounded on the teacher's clientInfo.writeMutex pattern in
// output/websocket/websocket.go.
type wsConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// dialStream opens the duplex text-frame channel for a session (spec
// §4.1 step 1, §6): headers always carry x-api-key and x-client-version,
// x-takeover is added when requested.
func dialStream(ctx context.Context, cfg *config, pathSuffix string) (*wsConn, *http.Response, error) {
	header := http.Header{}
	header.Set("x-api-key", cfg.apiKey)
	header.Set("x-client-version", cfg.clientVersion)
	if cfg.takeover {
		header.Set("x-takeover", "true")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, cfg.wssURL+pathSuffix, header)
	if err != nil {
		return nil, resp, errors.WrapTransient(err, "stream", "dialStream", "open transport")
	}
	return &wsConn{conn: conn}, resp, nil
}

// WriteText sends a single text frame, serialized against concurrent
// writers.
func (c *wsConn) WriteText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadText blocks for the next text frame. It returns a
// *websocket.CloseError when the remote end closed the channel, which
// callers inspect for the close code.
func (c *wsConn) ReadText() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// Close performs an orderly close handshake with the given code and
// reason, matching the five client-initiated codes in spec §6
// (1000/4000/4001/4002/4003).
func (c *wsConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason), deadline)
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// CloseAbnormal tears down the underlying connection without a close
// handshake, used by the pong watchdog (spec §4.4: "closes the transport
// with no code").
func (c *wsConn) CloseAbnormal() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}
