package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DefaultProfileTypes are pushed to Pyroscope when profiling is on
var DefaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler pushes continuous profiles of the process to Pyroscope
type Profiler struct {
	running  *pyroscope.Profiler
	stopOnce sync.Once
	stopErr  error
}

// NewProfiler starts profiling when cfg enables it; otherwise the returned
// profiler does nothing.
func NewProfiler(cfg config.TelemetryConfig, logger *zap.Logger) (*Profiler, error) {
	if !cfg.ProfilingEnabled {
		return &Profiler{}, nil
	}
	switch {
	case cfg.ProfilingServer == "":
		return nil, errors.New("profiler server address is required when profiling is enabled")
	case cfg.ServiceName == "":
		return nil, errors.New("profiler application name is required when profiling is enabled")
	}

	pc := pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.ProfilingServer,
		Logger:          logger.Named("pyroscope").Sugar(),
		ProfileTypes:    DefaultProfileTypes,
	}
	if host := os.Getenv("HOSTNAME"); host != "" {
		pc.Tags = map[string]string{"hostname": host}
	}

	running, err := pyroscope.Start(pc)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}
	logger.Info("Profiling enabled",
		zap.String("server_address", cfg.ProfilingServer),
		zap.String("application_name", cfg.ServiceName))
	return &Profiler{running: running}, nil
}

// Stop flushes pending profiles. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.stopOnce.Do(func() {
		if p.running == nil {
			return
		}
		if err := p.running.Stop(); err != nil {
			p.stopErr = fmt.Errorf("stop pyroscope profiler: %w", err)
		}
	})
	return p.stopErr
}

func (p *Profiler) IsEnabled() bool {
	return p.running != nil
}
