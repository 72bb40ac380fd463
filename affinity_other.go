//go:build !linux

package chanbench

import "errors"

var errAffinityUnsupported = errors.New("cpu affinity not supported on this platform")

func PinToCPU(cpu int) error { return errAffinityUnsupported }

func allowedCPUs() ([]int, error) { return nil, errAffinityUnsupported }
