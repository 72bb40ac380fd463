//go:build linux

package chanbench

import (
	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling thread to a single cpu.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}

func allowedCPUs() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, err
	}
	cpus := make([]int, 0, mask.Count())
	for i := 0; len(cpus) < mask.Count(); i++ {
		if mask.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
