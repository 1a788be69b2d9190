package gateway

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend answers calls from a method -> raw JSON result table.
type backend struct {
	mu      sync.Mutex
	results map[string]string
	errs    map[string]string
	args    map[string][]interface{}
}

func newBackend() *backend {
	return &backend{
		results: map[string]string{},
		errs:    map[string]string{},
		args:    map[string][]interface{}{},
	}
}

func (b *backend) reply(method string, args []interface{}) callResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.args[method] = args
	if msg, ok := b.errs[method]; ok {
		return callResponse{Error: msg}
	}
	raw, ok := b.results[method]
	if !ok {
		raw = "null"
	}
	return callResponse{Result: json.RawMessage(raw)}
}

func (b *backend) argsFor(method string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.args[method]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/health" {
		w.WriteHeader(http.StatusOK)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, "/api/call/")
	if method == "broken" {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(b.reply(method, req.Args))
}

func startUnixBackend(t *testing.T, b *backend) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "surround")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socketPath := filepath.Join(dir, "backend.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	srv := &http.Server{Handler: b}
	go srv.Serve(listener)
	t.Cleanup(func() { srv.Close() })
	return socketPath
}

func newHTTPClient(t *testing.T, b *backend) *Client {
	t.Helper()
	client := NewClient(NewHTTPCaller(startUnixBackend(t, b), 2*time.Second))
	t.Cleanup(func() { client.Close() })
	return client
}

func TestListSinkInputsValidatesPayload(t *testing.T) {
	b := newBackend()
	b.results[MethodListSinkInputs] = `[
		{"index": 1, "name": "Game A", "sink": 40, "volume": "FL: 100%",
		 "format": {"format": "pcm", "sample_format": "s16le", "rate": 48000, "channels": "2", "channel_map": ["front-left", "front-right"]}},
		{"index": "7", "name": "Bad Index"},
		{"index": 2.5, "name": "Fractional"},
		{"index": 3, "name": 12, "target_object": "alsa_output", "format": "garbage"},
		{"index": 4, "name": "Map String", "format": {"format": "pcm", "channel_map": "front-left, front-right"}},
		"not an object"
	]`
	client := newHTTPClient(t, b)

	records, err := client.ListSinkInputs(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	first := records[0]
	require.NotNil(t, first.Index)
	assert.Equal(t, 1, *first.Index)
	assert.Equal(t, "Game A", first.Name)
	require.NotNil(t, first.Sink)
	assert.Equal(t, 40, *first.Sink)
	require.NotNil(t, first.Format)
	assert.Equal(t, "48000", first.Format.Rate)
	assert.Equal(t, []string{"front-left", "front-right"}, first.Format.ChannelMap)

	assert.Nil(t, records[1].Index, "numeric strings are not indices")
	assert.Nil(t, records[2].Index)

	assert.Equal(t, "", records[3].Name, "non-string names are absent")
	assert.Equal(t, "alsa_output", records[3].TargetObject)
	assert.Nil(t, records[3].Format)

	require.NotNil(t, records[4].Format)
	assert.Equal(t, []string{"front-left", "front-right"}, records[4].Format.ChannelMap)
}

func TestListSinkInputsNullIsNoData(t *testing.T) {
	b := newBackend()
	client := newHTTPClient(t, b)

	_, err := client.ListSinkInputs(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoData))

	sinks, err := client.ListSinks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sinks)

	apps, err := client.GetEnabledApps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestListSinksAndFlags(t *testing.T) {
	b := newBackend()
	b.results[MethodListSinks] = `[{"index": 40, "name": "input.virtual-surround-sound", "description": "Virtual Surround Sound"}, {"name": "no index"}]`
	b.results[MethodGetSurroundSinkDefault] = `[true]`
	b.results[MethodGetEnabledApps] = `["Game A", 3, "Music"]`
	b.results[MethodIsAppConnected] = `1`
	client := newHTTPClient(t, b)
	ctx := context.Background()

	sinks, err := client.ListSinks(ctx)
	require.NoError(t, err)
	require.Len(t, sinks, 2)
	table := models.NewSinkTable(sinks)
	assert.Equal(t, "Virtual Surround Sound", table[40].Description)
	assert.Len(t, table, 1)

	def, err := client.GetSurroundSinkDefault(ctx)
	require.NoError(t, err)
	assert.True(t, def)

	apps, err := client.GetEnabledApps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Game A", "Music"}, apps)

	connected, err := client.IsAppConnectedToVirtualSink(ctx, "Game A")
	require.NoError(t, err)
	assert.True(t, connected)
	assert.Equal(t, []interface{}{"Game A"}, b.argsFor(MethodIsAppConnected))
}

func TestSetMixerProfileSendsProfile(t *testing.T) {
	b := newBackend()
	b.results[MethodSetMixerProfile] = `true`
	client := newHTTPClient(t, b)

	ok, err := client.SetMixerProfile(context.Background(), models.MixerProfile{
		Name:    "default",
		Volumes: map[string]int{"FL": 100},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	args := b.argsFor(MethodSetMixerProfile)
	require.Len(t, args, 1)
	sent, ok := args[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "default", sent["name"])
	assert.Equal(t, map[string]interface{}{"FL": float64(100)}, sent["volumes"])
}

func TestHrirFiles(t *testing.T) {
	b := newBackend()
	b.results[MethodGetHrirFiles] = `[{"label": "Atmos", "path": "/hrir/Atmos.wav", "channel_count": 14}, {"label": "Steam", "path": "/hrir/Steam.wav", "channel_count": null}]`
	client := newHTTPClient(t, b)

	files, err := client.GetHrirFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Atmos", files[0].Label)
	require.NotNil(t, files[0].ChannelCount)
	assert.Equal(t, 14, *files[0].ChannelCount)
	assert.Nil(t, files[1].ChannelCount)
}

func TestBackendErrors(t *testing.T) {
	b := newBackend()
	b.errs[MethodEnableForApp] = "app unknown"
	b.results[MethodListSinks] = `{"not": "a list"}`
	client := newHTTPClient(t, b)
	ctx := context.Background()

	_, err := client.EnableForApp(ctx, "Game A")
	assert.True(t, errors.Is(err, errors.ErrCodeBackendRejected))

	_, err = client.ListSinks(ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeBackendMalformed))

	err = client.caller.Call(ctx, "broken", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeBackendCallFailed))
}

func TestHTTPCallerUnreachable(t *testing.T) {
	caller := NewHTTPCaller(filepath.Join(t.TempDir(), "missing.sock"), time.Second)
	defer caller.Close()

	assert.False(t, caller.IsRunning(context.Background()))
	client := NewClient(caller)
	assert.True(t, errors.Is(client.Ping(context.Background()), errors.ErrCodeBackendUnavailable))
	err := caller.Call(context.Background(), MethodListSinks, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeBackendCallFailed))
}

func TestHTTPCallerHealth(t *testing.T) {
	caller := NewHTTPCaller(startUnixBackend(t, newBackend()), time.Second)
	defer caller.Close()
	assert.True(t, caller.IsRunning(context.Background()))
	assert.NoError(t, NewClient(caller).Ping(context.Background()))
}

// wsBackend answers websocket call frames, replying in reverse order of
// arrival for each pair of requests to exercise id matching.
func startWSBackend(t *testing.T, b *backend, hold <-chan struct{}) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var writeMu sync.Mutex
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			go func(req wsRequest) {
				if req.Method == "slow" && hold != nil {
					<-hold
				}
				resp := b.reply(req.Method, req.Args)
				writeMu.Lock()
				defer writeMu.Unlock()
				_ = conn.WriteJSON(wsReply{ID: req.ID, Result: resp.Result, Error: resp.Error})
			}(req)
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketCaller(t *testing.T) {
	b := newBackend()
	b.results[MethodGetEnabledApps] = `["Game A"]`
	b.results["slow"] = `true`
	hold := make(chan struct{})
	url := startWSBackend(t, b, hold)

	client, err := Dial(context.Background(), Options{Transport: TransportWebSocket, URL: url})
	require.NoError(t, err)
	defer client.Close()

	slowDone := make(chan error, 1)
	go func() {
		var out bool
		slowDone <- client.caller.Call(context.Background(), "slow", nil, &out)
	}()

	// A later call completes while the earlier one is still held.
	apps, err := client.GetEnabledApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Game A"}, apps)

	close(hold)
	require.NoError(t, <-slowDone)
}

func TestWebSocketCallerCancellation(t *testing.T) {
	b := newBackend()
	hold := make(chan struct{})
	defer close(hold)
	url := startWSBackend(t, b, hold)

	caller, err := DialWS(context.Background(), url, nil)
	require.NoError(t, err)
	defer caller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = caller.Call(ctx, "slow", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeBackendCallFailed))
}

func TestWebSocketDialFailure(t *testing.T) {
	_, err := DialWS(context.Background(), "ws://127.0.0.1:1/none", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeBackendUnavailable))
}

func TestDialUnknownTransport(t *testing.T) {
	_, err := Dial(context.Background(), Options{Transport: "carrier-pigeon"})
	assert.Error(t, err)
}
