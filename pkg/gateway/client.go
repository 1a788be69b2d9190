package gateway

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/models"
	"github.com/sirupsen/logrus"
)

// Client implements Gateway on top of a raw Caller.
type Client struct {
	caller Caller
	logger *logrus.Entry
}

// NewClient wraps a transport.
func NewClient(caller Caller) *Client {
	return &Client{
		caller: caller,
		logger: logging.NewLogger("gateway"),
	}
}

func (c *Client) call(ctx context.Context, method string, out interface{}, args ...interface{}) error {
	if args == nil {
		args = []interface{}{}
	}
	c.logger.WithField("method", method).Debug("Backend call")
	return c.caller.Call(ctx, method, args, out)
}

func (c *Client) callBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	var result interface{}
	if err := c.call(ctx, method, &result, args...); err != nil {
		return false, err
	}
	return truthy(result), nil
}

// callList fetches a JSON list. ok is false when the backend returned null.
func (c *Client) callList(ctx context.Context, method string, args ...interface{}) ([]interface{}, bool, error) {
	var raw json.RawMessage
	if err := c.call(ctx, method, &raw, args...); err != nil {
		return nil, false, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}
	var list []interface{}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, false, errors.Malformed(method, err)
	}
	return list, true, nil
}

// ListSinkInputs returns the raw stream records.
func (c *Client) ListSinkInputs(ctx context.Context) ([]models.RawStreamRecord, error) {
	list, ok, err := c.callList(ctx, MethodListSinkInputs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NoData(MethodListSinkInputs)
	}
	items := objects(list)
	records := make([]models.RawStreamRecord, 0, len(items))
	for _, item := range items {
		rec, err := decodeStreamRecord(item)
		if err != nil {
			c.logger.WithError(err).WithField("method", MethodListSinkInputs).
				Warn("Discarding malformed stream format")
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListSinks returns sink metadata. A null list is an empty list.
func (c *Client) ListSinks(ctx context.Context) ([]models.Sink, error) {
	list, _, err := c.callList(ctx, MethodListSinks)
	if err != nil {
		return nil, err
	}
	items := objects(list)
	sinks := make([]models.Sink, 0, len(items))
	for _, item := range items {
		sinks = append(sinks, decodeSink(item))
	}
	return sinks, nil
}

// GetSurroundSinkDefault reports whether the virtual sink is the default.
func (c *Client) GetSurroundSinkDefault(ctx context.Context) (bool, error) {
	return c.callBool(ctx, MethodGetSurroundSinkDefault)
}

// GetEnabledApps returns enabled application names; non-string entries are dropped.
func (c *Client) GetEnabledApps(ctx context.Context) ([]string, error) {
	list, _, err := c.callList(ctx, MethodGetEnabledApps)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// IsAppConnectedToVirtualSink queries routing for one application.
func (c *Client) IsAppConnectedToVirtualSink(ctx context.Context, name string) (bool, error) {
	return c.callBool(ctx, MethodIsAppConnected, name)
}

// EnableForApp adds an application to the enabled list.
func (c *Client) EnableForApp(ctx context.Context, name string) (bool, error) {
	return c.callBool(ctx, MethodEnableForApp, name)
}

// DisableForApp removes an application from the enabled list.
func (c *Client) DisableForApp(ctx context.Context, name string) (bool, error) {
	return c.callBool(ctx, MethodDisableForApp, name)
}

// SetMixerProfile sends the profile's volumes to the backend.
func (c *Client) SetMixerProfile(ctx context.Context, profile models.MixerProfile) (bool, error) {
	return c.callBool(ctx, MethodSetMixerProfile, profile)
}

// EnableSurroundSinkDefault makes the virtual sink the system default.
func (c *Client) EnableSurroundSinkDefault(ctx context.Context) (bool, error) {
	return c.callBool(ctx, MethodEnableSurroundSinkDefault)
}

// DisableSurroundSinkDefault stops forcing the virtual sink as default.
func (c *Client) DisableSurroundSinkDefault(ctx context.Context) (bool, error) {
	return c.callBool(ctx, MethodDisableSurroundSinkDefault)
}

// GetHrirFiles lists the HRIR files the backend can install.
func (c *Client) GetHrirFiles(ctx context.Context) ([]models.HrirFile, error) {
	list, _, err := c.callList(ctx, MethodGetHrirFiles)
	if err != nil {
		return nil, err
	}
	items := objects(list)
	files := make([]models.HrirFile, 0, len(items))
	for _, item := range items {
		f, err := decodeHrirFile(item)
		if err != nil {
			c.logger.WithError(err).Warn("Skipping malformed HRIR entry")
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// SetHrirFile installs the HRIR file at path.
func (c *Client) SetHrirFile(ctx context.Context, path string) (bool, error) {
	return c.callBool(ctx, MethodSetHrirFile, path)
}

// RunSoundTest plays the speaker test through the named sink.
func (c *Client) RunSoundTest(ctx context.Context, sink string) error {
	return c.call(ctx, MethodRunSoundTest, nil, sink)
}

// Ping checks that the backend answers. Transports without a health check
// are assumed reachable once dialed.
func (c *Client) Ping(ctx context.Context) error {
	if p, ok := c.caller.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.caller.Close()
}

// Ensure Client implements Gateway interface.
var _ Gateway = (*Client)(nil)
