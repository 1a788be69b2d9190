package gateway

import (
	"context"
	"fmt"
	"time"
)

// Transport names accepted by Dial.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Options selects and configures a transport.
type Options struct {
	Transport  string
	SocketPath string
	URL        string
	Timeout    time.Duration
}

// Dial returns a Client over the configured transport. The HTTP transport is
// lazy and never fails here; the websocket transport connects immediately.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	switch opts.Transport {
	case "", TransportHTTP:
		return NewClient(NewHTTPCaller(opts.SocketPath, opts.Timeout)), nil
	case TransportWebSocket:
		caller, err := DialWS(ctx, opts.URL, nil)
		if err != nil {
			return nil, err
		}
		return NewClient(caller), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", opts.Transport)
	}
}
