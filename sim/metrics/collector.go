// Package metrics exports the statistics of a finished simulation in the
// Prometheus text exposition format.
//
// A Collector owns a private registry so that several runs (or tests) never
// share metric state. Observe copies a RunSummary into the registered
// counters and gauges; WriteTextfile persists them for a node_exporter
// textfile collector or for offline comparison between runs.
package metrics

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/inference-sim/procsim/sim"
)

// Collector holds the Prometheus metrics of one simulation run.
type Collector struct {
	registry *prometheus.Registry

	info             *prometheus.GaugeVec
	cycles           prometheus.Counter
	idleCycles       prometheus.Counter
	schedules        prometheus.Counter
	processesCreated prometheus.Counter
	processesExited  prometheus.Counter
	malformed        prometheus.Counter
	dispatched       *prometheus.CounterVec
	peakReady        prometheus.Gauge
	utilization      prometheus.Gauge
	turnaround       *prometheus.GaugeVec
	readyWait        *prometheus.GaugeVec
}

// NewCollector creates a Collector registered on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "procsim_run_info",
				Help: "Information about the run (value always 1)",
			},
			[]string{"init_program", "halt"},
		),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_cycles_total",
			Help: "Logged cycles",
		}),
		idleCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_idle_cycles_total",
			Help: "Cycles in which the scheduler found nothing to run",
		}),
		schedules: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_schedules_total",
			Help: "Processes moved from ready to running",
		}),
		processesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_processes_created_total",
			Help: "Processes created (boot plus forks)",
		}),
		processesExited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_processes_exited_total",
			Help: "Processes terminated by exit",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procsim_malformed_instructions_total",
			Help: "Unknown instructions skipped by the interpreter",
		}),
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procsim_instructions_dispatched_total",
				Help: "Instructions dispatched, by kind",
			},
			[]string{"kind"},
		),
		peakReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "procsim_ready_queue_peak",
			Help: "Maximum number of simultaneously ready processes",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "procsim_cpu_utilization_ratio",
			Help: "Fraction of logged cycles that were not idle",
		}),
		turnaround: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "procsim_turnaround_cycles",
				Help: "Process lifetime quantiles in cycles (creation to exit)",
			},
			[]string{"q"},
		),
		readyWait: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "procsim_ready_wait_cycles",
				Help: "Ready queue wait quantiles in cycles (enqueue to schedule)",
			},
			[]string{"q"},
		),
	}

	c.registry.MustRegister(
		c.info,
		c.cycles,
		c.idleCycles,
		c.schedules,
		c.processesCreated,
		c.processesExited,
		c.malformed,
		c.dispatched,
		c.peakReady,
		c.utilization,
		c.turnaround,
		c.readyWait,
	)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records the summary of a finished run.
func (c *Collector) Observe(initProgram string, s sim.RunSummary) {
	c.info.WithLabelValues(initProgram, string(s.Halt)).Set(1)
	c.cycles.Add(float64(s.Cycles))
	c.idleCycles.Add(float64(s.IdleCycles))
	c.schedules.Add(float64(s.Schedules))
	c.processesCreated.Add(float64(s.ProcessesCreated))
	c.processesExited.Add(float64(s.ProcessesExited))
	c.malformed.Add(float64(s.MalformedInstructions))

	kinds := make([]string, 0, len(s.Dispatched))
	for k := range s.Dispatched {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		c.dispatched.WithLabelValues(k).Add(float64(s.Dispatched[k]))
	}

	c.peakReady.Set(float64(s.PeakReadyLen))
	c.utilization.Set(s.Utilization)
	c.turnaround.WithLabelValues("0.5").Set(s.TurnaroundP50)
	c.turnaround.WithLabelValues("0.95").Set(s.TurnaroundP95)
	c.readyWait.WithLabelValues("0.5").Set(s.ReadyWaitP50)
	c.readyWait.WithLabelValues("0.95").Set(s.ReadyWaitP95)
}

// WriteTextfile writes every registered metric to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
