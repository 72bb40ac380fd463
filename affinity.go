package chanbench

import (
	"fmt"
	"runtime"
	"slices"
)

// Binder pins the calling OS thread to a CPU core.
//
// Callers must lock their goroutine to its thread with
// runtime.LockOSThread before calling Bind, otherwise the
// affinity applies to whichever thread happens to run it.
type Binder interface {
	Bind(core int) error
}

// BinderFunc adapts a function to the Binder interface.
type BinderFunc func(core int) error

func (f BinderFunc) Bind(core int) error { return f(core) }

// NoopBinder accepts every core without touching thread affinity.
// It keeps the pool logic testable on any platform.
type NoopBinder struct{}

func (NoopBinder) Bind(int) error { return nil }

// AffinityBinder pins threads with the operating system's affinity
// call. It is only functional on Linux.
type AffinityBinder struct{}

func (AffinityBinder) Bind(core int) error {
	if core < 0 {
		return fmt.Errorf("invalid core %d", core)
	}
	return PinToCPU(core)
}

// CoreMap maps logical worker ids to physical cores.
type CoreMap struct {
	Workers []int
	Driver  int
}

// DefaultCoreMap assigns cores 0..workers-1 to the workers and
// reserves the next core for the driver.
func DefaultCoreMap(workers int) CoreMap {
	m := CoreMap{Workers: make([]int, workers), Driver: workers}
	for i := range m.Workers {
		m.Workers[i] = i
	}
	return m
}

// CoreMapFor assigns the first workers entries of cpus to the workers
// and the next one to the driver. When cpus has too few entries it
// falls back to DefaultCoreMap.
func CoreMapFor(workers int, cpus []int) CoreMap {
	if len(cpus) <= workers {
		return DefaultCoreMap(workers)
	}
	return CoreMap{Workers: slices.Clone(cpus[:workers]), Driver: cpus[workers]}
}

// Core returns the core assigned to worker id.
func (m CoreMap) Core(id int) int { return m.Workers[id] }

// AvailableCPUs returns the cores the process may run on, falling back
// to 0..NumCPU-1 when the platform cannot report them.
func AvailableCPUs() []int {
	if cpus, err := allowedCPUs(); err == nil && len(cpus) > 0 {
		return cpus
	}
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}
