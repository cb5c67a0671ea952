// Package profiling captures CPU and heap profiles around a simulation run.
package profiling

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"

	"github.com/frankieycy/order-book-simulator/logging"
)

// Profiler writes pprof profiles spanning a run. Start begins the CPU
// profile; Stop ends it and, if configured, dumps the heap.
type Profiler struct {
	cpuPath string
	memPath string
	cpuFile *os.File
}

// NewProfiler creates a profiler writing to the given paths. An empty path
// disables that profile.
func NewProfiler(cpuPath, memPath string) *Profiler {
	return &Profiler{cpuPath: cpuPath, memPath: memPath}
}

// Start begins CPU profiling if a CPU path is configured.
func (p *Profiler) Start() error {
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return errors.Wrapf(err, "creating cpu profile %s", p.cpuPath)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return errors.Wrap(err, "starting cpu profile")
	}
	p.cpuFile = f
	return nil
}

// Stop ends the CPU profile and writes the heap profile if configured.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			return errors.Wrap(err, "closing cpu profile")
		}
		logging.LogExportWritten(p.cpuPath, "pprof", 1)
		p.cpuFile = nil
	}
	if p.memPath == "" {
		return nil
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		return errors.Wrapf(err, "creating heap profile %s", p.memPath)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrap(err, "writing heap profile")
	}
	logging.LogExportWritten(p.memPath, "pprof", 1)
	return nil
}
