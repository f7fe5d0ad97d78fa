package telemetry

import (
	"context"
	"fmt"

	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogShipper forwards zap entries to the OTLP collector next to the regular
// log output. Disabled, it leaves loggers untouched.
type LogShipper struct {
	sdk     *sdklog.LoggerProvider
	service string
}

// NewLogShipper batches records to the collector of cfg when both telemetry
// and log shipping are on
func NewLogShipper(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*LogShipper, error) {
	ls := &LogShipper{service: cfg.ServiceName}
	if !cfg.Enabled || !cfg.LogsEnabled {
		return ls, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP log exporter: %w", err)
	}
	res, err := serviceResource(cfg.ServiceName, version)
	if err != nil {
		return nil, err
	}

	ls.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	logger.Info("Log shipping enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return ls, nil
}

// NewLogShipperWithExporter emits every record synchronously to exporter
func NewLogShipperWithExporter(service string, exporter sdklog.Exporter) *LogShipper {
	return &LogShipper{
		sdk:     sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter))),
		service: service,
	}
}

func (ls *LogShipper) IsEnabled() bool {
	return ls.sdk != nil
}

// Attach returns logger teed into the collector. Entries below the level of
// logger's own core are not shipped either.
func (ls *LogShipper) Attach(logger *zap.Logger) *zap.Logger {
	if ls.sdk == nil {
		return logger
	}
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		shipped := otelzap.NewCore(ls.service, otelzap.WithLoggerProvider(ls.sdk))
		return zapcore.NewTee(core, gatedCore{Core: shipped, level: core})
	}))
}

// Shutdown flushes buffered records, giving up after shutdownTimeout
func (ls *LogShipper) Shutdown(ctx context.Context) error {
	if ls.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := ls.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown logger provider: %w", err)
	}
	return nil
}

// gatedCore drops entries its level enabler rejects. The otelzap core
// accepts every level on its own.
type gatedCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (g gatedCore) Enabled(l zapcore.Level) bool {
	return g.level.Enabled(l) && g.Core.Enabled(l)
}

func (g gatedCore) With(fields []zapcore.Field) zapcore.Core {
	return gatedCore{Core: g.Core.With(fields), level: g.level}
}

func (g gatedCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !g.level.Enabled(e.Level) {
		return ce
	}
	return g.Core.Check(e, ce)
}
