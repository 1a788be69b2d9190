package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/logging"
	"github.com/sirupsen/logrus"
)

// wsRequest is one call frame sent to the backend.
type wsRequest struct {
	ID     uint64        `json:"id"`
	Method string        `json:"method"`
	Args   []interface{} `json:"args"`
}

// wsReply is one reply frame; ID matches the request.
type wsReply struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// WSCaller multiplexes calls over one websocket connection. Replies may
// arrive in any order and are matched to their call by id.
type WSCaller struct {
	conn   *websocket.Conn
	url    string
	logger *logrus.Entry

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan wsReply
	closed  bool
	err     error
	done    chan struct{}
}

// DialWS connects to the backend websocket endpoint.
func DialWS(ctx context.Context, url string, header http.Header) (*WSCaller, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, errors.Unavailable(url, err)
	}

	c := &WSCaller{
		conn:    conn,
		url:     url,
		logger:  logging.NewLogger("gateway-ws"),
		pending: make(map[uint64]chan wsReply),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call sends a request frame and waits for its reply or ctx cancellation.
// A cancelled call's late reply is dropped.
func (c *WSCaller) Call(ctx context.Context, method string, args []interface{}, out interface{}) error {
	ch := make(chan wsReply, 1)

	c.mu.Lock()
	if c.closed {
		err := c.err
		c.mu.Unlock()
		return errors.CallFailed(method, fmt.Errorf("connection closed: %v", err))
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
	}
	err := c.conn.WriteJSON(wsRequest{ID: id, Method: method, Args: args})
	c.writeMu.Unlock()
	if err != nil {
		return errors.CallFailed(method, err)
	}

	select {
	case reply := <-ch:
		return decodeReply(method, callResponse{Result: reply.Result, Error: reply.Error}, out)
	case <-ctx.Done():
		return errors.CallFailed(method, ctx.Err())
	case <-c.done:
		return errors.CallFailed(method, fmt.Errorf("connection closed"))
	}
}

func (c *WSCaller) readLoop() {
	defer close(c.done)
	for {
		var reply wsReply
		if err := c.conn.ReadJSON(&reply); err != nil {
			c.mu.Lock()
			if !c.closed {
				c.logger.WithError(err).WithField("url", c.url).Warn("Backend websocket closed")
			}
			c.closed = true
			c.err = err
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[reply.ID]
		c.mu.Unlock()
		if !ok {
			c.logger.WithField("id", reply.ID).Debug("Dropping reply for abandoned call")
			continue
		}
		select {
		case ch <- reply:
		default:
			// Duplicate reply for an id that already has one queued.
		}
	}
}

// Close sends a close frame and tears down the connection.
func (c *WSCaller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

var _ Caller = (*WSCaller)(nil)
