// Command aimsim wires configuration, logging, metrics, the memory-system
// core, a set of reference channel controllers, and a reference DRAM stub
// together, feeds a synthetic instruction stream through them to
// completion, and prints a statistics summary.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	ramulator "github.com/arkhadem/ramulator2"
	"github.com/arkhadem/ramulator2/internal/config"
	"github.com/arkhadem/ramulator2/internal/controller"
	"github.com/arkhadem/ramulator2/internal/dram"
	"github.com/arkhadem/ramulator2/internal/interfaces"
	"github.com/arkhadem/ramulator2/internal/logging"
	"github.com/arkhadem/ramulator2/internal/metricsprom"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "aimsim",
		Short: "Accelerator-in-Memory decode/dispatch simulator",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	run := &cobra.Command{
		Use:   "run",
		Short: "run a synthetic instruction stream to completion and print a statistics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(configPath)
		},
	}
	root.AddCommand(run)
	return root
}

func runSimulation(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := logging.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	logger := logging.NewLogger(&logging.Config{Level: level, JSON: cfg.Logging.JSON, Output: os.Stderr})
	logging.SetDefault(logger)

	reg := prometheus.NewRegistry()
	promObserver := metricsprom.New(reg)
	metrics := ramulator.NewMetrics()
	observer := ramulator.NewMetricsObserver(metrics)

	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.BindAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			logger.Infof("metrics listening on %s", cfg.Metrics.BindAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	controllers := make([]interfaces.Controller, cfg.MemorySystem.ChannelCount)
	for i := range controllers {
		controllers[i] = controller.New(controller.Config{
			Depth:   cfg.MemorySystem.ControllerDepth,
			Latency: cfg.MemorySystem.ControllerLatency,
			Logger:  logger,
		})
	}
	dramStub := dram.New(dram.Config{ChannelCount: cfg.MemorySystem.ChannelCount})

	ms := ramulator.NewMemorySystem(ramulator.Config{
		Controllers:   controllers,
		DRAM:          dramStub,
		Logger:        logger,
		Observer:      fanoutObserver{a: observer, b: promObserver},
		QueueCapacity: cfg.MemorySystem.QueueCapacity,
	})

	stream := syntheticStream(cfg.MemorySystem.ChannelCount)
	pending := len(stream)
	for _, req := range stream {
		req := req
		req.Callback = func(*ramulator.Request) { pending-- }
		if !ms.Send(req) {
			logger.Warnf("host queue rejected request")
		}
	}

	const maxTicks = 1_000_000
	for tick := 0; tick < maxTicks && (pending > 0 || len(stream) > 0); tick++ {
		if err := ms.Tick(); err != nil {
			logger.Errorf("simulation halted: %v", err)
			return err
		}
		if pending <= 0 {
			break
		}
	}

	printSummary(metrics.Snapshot())
	return nil
}

// fanoutObserver forwards every event to both the snapshot-backed observer
// and the Prometheus-backed one so the same event stream drives the CLI's
// end-of-run table and the /metrics endpoint.
type fanoutObserver struct {
	a ramulator.Observer
	b *metricsprom.Observer
}

func (f fanoutObserver) ObserveSend(accepted bool) {
	f.a.ObserveSend(accepted)
	f.b.ObserveSend(accepted)
}
func (f fanoutObserver) ObserveTick() {
	f.a.ObserveTick()
	f.b.ObserveTick()
}
func (f fanoutObserver) ObserveReject(channel int) {
	f.a.ObserveReject(channel)
	f.b.ObserveReject(channel)
}
func (f fanoutObserver) ObserveOpcode(opcode string) {
	f.a.ObserveOpcode(opcode)
	f.b.ObserveOpcode(opcode)
}
func (f fanoutObserver) ObserveTypeRegion(t, region string) {
	f.a.ObserveTypeRegion(t, region)
	f.b.ObserveTypeRegion(t, region)
}
func (f fanoutObserver) ObserveWaitStall() {
	f.a.ObserveWaitStall()
	f.b.ObserveWaitStall()
}

// syntheticStream builds a small host-request stream exercising every
// opcode family and both Read/Write regions at least once, fanned across
// channelCount channels via ChannelMask.
func syntheticStream(channelCount int) []*ramulator.Request {
	allChannels := (1 << uint(channelCount)) - 1

	return []*ramulator.Request{
		{Type: ramulator.TypeWrite, Region: ramulator.RegionGPR, ChannelMask: allChannels, ColAddr: 0, Data: 1},
		{Type: ramulator.TypeWrite, Region: ramulator.RegionCFR, ChannelMask: allChannels, Addr: 0, Data: 2},
		{Type: ramulator.TypeWrite, Region: ramulator.RegionMEM, ChannelMask: 0, BankIndex: 0, RowAddr: 0, ColAddr: 0, Data: 3},
		{Type: ramulator.TypeRead, Region: ramulator.RegionMEM, ChannelMask: 0, BankIndex: 0, RowAddr: 0, ColAddr: 0},
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_WR_SBK, ChannelMask: allChannels, BankIndex: 0, ColAddr: 0, OpSize: 1},
		// ISR_MAC_SBK and ISR_AF are channelCountEqOne opcodes (isr.go): they
		// require exactly one channel bit set, unlike the rest of this stream.
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_MAC_SBK, ChannelMask: 1, BankIndex: 0, ColAddr: 0},
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_RD_MAC, ChannelMask: allChannels},
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_AF, ChannelMask: 1, BankIndex: 0},
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_EWMUL, ChannelMask: allChannels, EwmulBG: 0},
		{Type: ramulator.TypeAIM, Opcode: ramulator.ISR_EOC, ChannelMask: allChannels},
	}
}

func printSummary(snap ramulator.MetricsSnapshot) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Counter", "Value"})
	table.Append([]string{"Cycles", fmt.Sprintf("%d", snap.Cycles)})
	table.Append([]string{"ISR queue full events", fmt.Sprintf("%d", snap.ISRQueueFull)})
	table.Append([]string{"Wait-for-read stall cycles", fmt.Sprintf("%d", snap.WaitReadStalls)})
	for k, v := range snap.TypeRegion {
		if v > 0 {
			table.Append([]string{k, fmt.Sprintf("%d", v)})
		}
	}
	for k, v := range snap.Opcode {
		if v > 0 {
			table.Append([]string{k, fmt.Sprintf("%d", v)})
		}
	}
	table.Render()
}
