package config

import (
	"fmt"
	"strings"

	"github.com/example/go-saxpy/internal/saxpy/kernel"
)

const (
	PartitionContiguous = "contiguous"
	PartitionStrided    = "strided"

	KernelAuto = kernel.Auto
)

func NormalizePartition(raw string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(raw))
	switch p {
	case "", "static":
		return PartitionContiguous, nil
	case "cyclic":
		return PartitionStrided, nil
	case PartitionContiguous, PartitionStrided:
		return p, nil
	default:
		return "", fmt.Errorf("invalid partition %q (expected %s|%s)", raw, PartitionContiguous, PartitionStrided)
	}
}

func NormalizeKernel(raw string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(raw))
	if k == "" {
		return KernelAuto, nil
	}

	names := kernel.Global.Names()
	for _, name := range names {
		if k == name {
			return k, nil
		}
	}

	return "", fmt.Errorf("invalid kernel %q (expected %s)", raw, strings.Join(names, "|"))
}
