// Package gatewaytest provides an in-memory Gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/gateway"
	"github.com/grovetools/surround/pkg/models"
)

// Call records one invocation on the fake.
type Call struct {
	Method string
	Arg    interface{}
}

// Fake is a scriptable Gateway. Create it with NewFake; change scripted fields
// after calls have started only through Update.
type Fake struct {
	mu sync.Mutex

	SinkInputs    []models.RawStreamRecord
	NoSinkInputs  bool
	Sinks         []models.Sink
	SinkDefault   bool
	EnabledApps   []string
	Connected     map[string]bool
	ConnectErrors map[string]error
	HrirFiles     []models.HrirFile
	Errors        map[string]error

	// BeforeCall, if set, runs before every call without the lock held.
	BeforeCall func(method string, arg interface{})

	calls    []Call
	profiles []models.MixerProfile
	closed   bool
}

// NewFake returns an empty fake.
func NewFake() *Fake {
	return &Fake{
		Connected:     map[string]bool{},
		ConnectErrors: map[string]error{},
		Errors:        map[string]error{},
	}
}

// Update mutates the fake's scripted state under its lock.
func (f *Fake) Update(fn func(f *Fake)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// Calls returns the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls to one method.
func (f *Fake) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Profiles returns every profile passed to SetMixerProfile, in order.
func (f *Fake) Profiles() []models.MixerProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.MixerProfile(nil), f.profiles...)
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) begin(ctx context.Context, method string, arg interface{}) error {
	if f.BeforeCall != nil {
		f.BeforeCall(method, arg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Arg: arg})
	if err := ctx.Err(); err != nil {
		return errors.CallFailed(method, err)
	}
	if err, ok := f.Errors[method]; ok && err != nil {
		return errors.CallFailed(method, err)
	}
	return nil
}

func (f *Fake) ListSinkInputs(ctx context.Context) ([]models.RawStreamRecord, error) {
	if err := f.begin(ctx, gateway.MethodListSinkInputs, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NoSinkInputs {
		return nil, errors.NoData(gateway.MethodListSinkInputs)
	}
	return append([]models.RawStreamRecord(nil), f.SinkInputs...), nil
}

func (f *Fake) ListSinks(ctx context.Context) ([]models.Sink, error) {
	if err := f.begin(ctx, gateway.MethodListSinks, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Sink(nil), f.Sinks...), nil
}

func (f *Fake) GetSurroundSinkDefault(ctx context.Context) (bool, error) {
	if err := f.begin(ctx, gateway.MethodGetSurroundSinkDefault, nil); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SinkDefault, nil
}

func (f *Fake) GetEnabledApps(ctx context.Context) ([]string, error) {
	if err := f.begin(ctx, gateway.MethodGetEnabledApps, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.EnabledApps...), nil
}

func (f *Fake) IsAppConnectedToVirtualSink(ctx context.Context, name string) (bool, error) {
	if err := f.begin(ctx, gateway.MethodIsAppConnected, name); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.ConnectErrors[name]; ok && err != nil {
		return false, errors.CallFailed(gateway.MethodIsAppConnected, err).WithDetail("app", name)
	}
	return f.Connected[name], nil
}

func (f *Fake) EnableForApp(ctx context.Context, name string) (bool, error) {
	if err := f.begin(ctx, gateway.MethodEnableForApp, name); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.EnabledApps {
		if n == name {
			return true, nil
		}
	}
	f.EnabledApps = append(f.EnabledApps, name)
	return true, nil
}

func (f *Fake) DisableForApp(ctx context.Context, name string) (bool, error) {
	if err := f.begin(ctx, gateway.MethodDisableForApp, name); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.EnabledApps[:0]
	for _, n := range f.EnabledApps {
		if n != name {
			kept = append(kept, n)
		}
	}
	f.EnabledApps = kept
	return true, nil
}

func (f *Fake) SetMixerProfile(ctx context.Context, profile models.MixerProfile) (bool, error) {
	if err := f.begin(ctx, gateway.MethodSetMixerProfile, profile.Clone()); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, profile.Clone())
	return true, nil
}

func (f *Fake) EnableSurroundSinkDefault(ctx context.Context) (bool, error) {
	if err := f.begin(ctx, gateway.MethodEnableSurroundSinkDefault, nil); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SinkDefault = true
	return true, nil
}

func (f *Fake) DisableSurroundSinkDefault(ctx context.Context) (bool, error) {
	if err := f.begin(ctx, gateway.MethodDisableSurroundSinkDefault, nil); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SinkDefault = false
	return true, nil
}

func (f *Fake) GetHrirFiles(ctx context.Context) ([]models.HrirFile, error) {
	if err := f.begin(ctx, gateway.MethodGetHrirFiles, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.HrirFile(nil), f.HrirFiles...), nil
}

func (f *Fake) SetHrirFile(ctx context.Context, path string) (bool, error) {
	if err := f.begin(ctx, gateway.MethodSetHrirFile, path); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.HrirFiles {
		if h.Path == path {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) RunSoundTest(ctx context.Context, sink string) error {
	return f.begin(ctx, gateway.MethodRunSoundTest, sink)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Fail makes every call to method fail with a transport error.
func (f *Fake) Fail(method string) {
	f.Update(func(f *Fake) {
		f.Errors[method] = fmt.Errorf("%s: connection refused", method)
	})
}

var _ gateway.Gateway = (*Fake)(nil)
