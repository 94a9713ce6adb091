package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/client"
	"github.com/spetersoncode/aigate/config"
	"github.com/spetersoncode/aigate/telemetry"
)

// app holds the global flags and the gateway built from them.
type app struct {
	configPath  string
	logLevel    string
	logJSON     bool
	provider    string
	fallbacks   []string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	metricsFile string
}

func (a *app) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file (default: environment variables)")
	f.StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	f.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")
	f.StringVarP(&a.provider, "provider", "p", "", "Preferred provider for this request")
	f.StringSliceVar(&a.fallbacks, "fallbacks", nil, "Fallback providers for this request, in order")
	f.StringVarP(&a.model, "model", "m", "", "Model for the preferred provider")
	f.Float64VarP(&a.temperature, "temperature", "t", 0, "Sampling temperature")
	f.IntVar(&a.maxTokens, "max-tokens", 0, "Maximum tokens to generate")
	f.DurationVar(&a.timeout, "timeout", 0, "Per-attempt timeout, e.g. 30s")
	f.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")
}

// loadConfig reads the configuration file if one was given and the
// environment otherwise.
func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.Load(a.configPath)
	}
	return config.FromEnv()
}

// options converts request flags into gateway options.
func (a *app) options(cmd *cobra.Command) []ai.Option {
	var opts []ai.Option
	if a.provider != "" {
		opts = append(opts, ai.WithProvider(ai.ParseProvider(a.provider)))
	}
	if cmd.Flags().Changed("fallbacks") {
		providers := make([]ai.Provider, 0, len(a.fallbacks))
		for _, name := range a.fallbacks {
			providers = append(providers, ai.ParseProvider(name))
		}
		opts = append(opts, ai.WithFallbacks(providers...))
	}
	if a.model != "" {
		opts = append(opts, ai.WithModel(a.model))
	}
	if cmd.Flags().Changed("temperature") {
		opts = append(opts, ai.WithTemperature(a.temperature))
	}
	if a.maxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(a.maxTokens))
	}
	if a.timeout > 0 {
		opts = append(opts, ai.WithTimeout(a.timeout))
	}
	return opts
}

// gatewayFunc is the body of a command that talks to the gateway.
type gatewayFunc func(ctx context.Context, c *client.Client, opts []ai.Option) error

// run builds the gateway, runs fn and then flushes logs and metrics.
func (a *app) run(cmd *cobra.Command, fn gatewayFunc) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	zl, err := newLogger(a.logLevel, a.logJSON)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	logger := slog.New(newSlogHandler(zl))

	reg := prometheus.NewRegistry()
	metrics := telemetry.New(reg)
	events := make(chan client.Event, 256)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		metrics.Consume(context.Background(), events, func(e client.Event) {
			logEvent(zl, e)
		})
	}()

	ccfg := cfg.ClientConfig()
	ccfg.Logger = logger
	ccfg.Events = events
	c, err := client.New(ccfg)
	if err != nil {
		close(events)
		<-consumed
		return err
	}

	runErr := fn(cmd.Context(), c, a.options(cmd))

	close(events)
	<-consumed
	if a.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.metricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return runErr
}

// logEvent writes attempt-level events at debug level.
func logEvent(zl *zap.Logger, e client.Event) {
	if e.RetryEvent == nil {
		return
	}
	re := e.RetryEvent
	fields := []zap.Field{
		zap.String("request_id", re.RequestID),
		zap.String("operation", string(re.Operation)),
		zap.String("provider", string(re.Provider)),
	}
	if re.Credential != "" {
		fields = append(fields, zap.String("credential", re.Credential))
	}
	if re.Attempt > 0 {
		fields = append(fields, zap.Int("attempt", re.Attempt))
	}
	if re.Duration > 0 {
		fields = append(fields, zap.Duration("duration", re.Duration))
	}
	if re.Error != nil {
		fields = append(fields, zap.Error(re.Error))
	}
	zl.Debug(string(re.Type), fields...)
}
