package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/fluxdisplay/internal/config"
	"codeberg.org/mutker/fluxdisplay/internal/display"
	"codeberg.org/mutker/fluxdisplay/internal/gpu"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
	"codeberg.org/mutker/fluxdisplay/internal/pid"
	"codeberg.org/mutker/fluxdisplay/internal/poller"
	"codeberg.org/mutker/fluxdisplay/internal/sensor"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	cfg.Validate()
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to acquire PID file")
	}

	device, err := display.Open(display.VendorID, display.ProductID)
	if err != nil {
		pid.Remove()
		logger.Fatal().Err(err).Msg("Failed to open display")
	}

	cpuPath := cfg.CPUDevice
	if cpuPath == "" {
		if cpuPath, err = sensor.DefaultCPUDevice(); err != nil {
			logger.Warn().Err(err).Msg("No CPU temperature sensor found, CPU temperature will not be reported")
			cpuPath = ""
		}
	}

	gpuBackend := gpu.Detect()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	interval := time.Duration(cfg.PollingInterval) * time.Millisecond
	poller.New(device, cpuSource(cpuPath), gpuSource(gpuBackend), interval).Run(ctx)

	cleanup(device, gpuBackend)
}

func cpuSource(path string) poller.Source {
	return func() display.Reading {
		if path == "" {
			return display.None()
		}

		value, err := sensor.Read(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to read CPU temperature")
			return display.None()
		}

		return display.Value(value)
	}
}

func gpuSource(backend gpu.Backend) poller.Source {
	return func() display.Reading {
		value, ok := backend.Temperature()
		if !ok {
			return display.None()
		}

		return display.Value(value)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(device *display.Device, gpuBackend gpu.Backend) {
	if err := gpuBackend.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to shut down GPU backend")
	}
	device.Close()

	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}

	logger.Info().Msg("Exiting...")
}
