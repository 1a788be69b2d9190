package cmd

import (
	"context"
	"time"

	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/config"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/internal/controls"
	"github.com/grovetools/surround/pkg/consolidate"
	"github.com/grovetools/surround/pkg/gateway"
	"github.com/grovetools/surround/pkg/host"
	"github.com/grovetools/surround/pkg/paths"
	"github.com/grovetools/surround/pkg/pluginconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dialTimeout = 5 * time.Second

// runtime is everything a command needs to talk to the backend.
type runtime struct {
	settings *config.Settings
	gateway  *gateway.Client
	plugin   *pluginconfig.Store
	session  *controls.Session
	logger   *logrus.Entry
}

type runtimeOptions struct {
	// watch reloads plugin.yml on external edits.
	watch bool
	// offline skips the backend health check.
	offline bool
}

// openRuntime loads the settings and wires a controls session for cmd.
// Callers must Close the returned runtime.
func openRuntime(cmd *cobra.Command, ro runtimeOptions) (*runtime, error) {
	opts := cli.GetOptions(cmd)
	logger := cli.GetLogger(cmd)

	settings, err := cli.LoadSettings(opts)
	if err != nil {
		return nil, err
	}
	filter, err := consolidate.NewFilter(settings.IgnoreApps)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	socket := settings.SocketPath
	if socket == "" {
		socket = paths.SocketPath()
	}
	dialCtx, cancel := context.WithTimeout(commandContext(cmd), dialTimeout)
	defer cancel()
	gw, err := gateway.Dial(dialCtx, gateway.Options{
		Transport:  settings.Transport,
		SocketPath: socket,
		URL:        settings.URL,
		Timeout:    settings.CallTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}
	if !ro.offline {
		if err := gw.Ping(dialCtx); err != nil {
			gw.Close()
			return nil, err
		}
	}

	pluginPath := settings.PluginConfigPath
	if pluginPath == "" {
		pluginPath = paths.PluginConfigPath()
	}
	plugin, err := pluginconfig.Open(pluginPath)
	if err != nil {
		gw.Close()
		return nil, err
	}

	app, _ := cmd.Flags().GetString("app")
	session, err := controls.New(controls.Options{
		Gateway:         gw,
		Config:          plugin,
		Foreground:      host.NewStatic(app),
		Filter:          filter,
		RefreshInterval: settings.RefreshIntervalDuration(),
		QuietPeriod:     settings.VolumeQuietPeriodDuration(),
		CallTimeout:     settings.CallTimeoutDuration(),
		WatchConfig:     ro.watch,
	})
	if err != nil {
		plugin.Close()
		gw.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"transport": settings.Transport,
		"plugin":    pluginPath,
	}).Debug("Controls session opened")

	return &runtime{
		settings: settings,
		gateway:  gw,
		plugin:   plugin,
		session:  session,
		logger:   logger,
	}, nil
}

// Close flushes pending edits and releases the backend connection.
func (r *runtime) Close() error {
	err := r.session.Close()
	if cerr := r.plugin.Close(); err == nil {
		err = cerr
	}
	if cerr := r.gateway.Close(); err == nil {
		err = cerr
	}
	return err
}

// commandContext returns the context passed to ExecuteContext, or Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
