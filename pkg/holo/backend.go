package holo

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// BackendInfo describes the transform backend compiled into this binary and
// the SIMD features the CPU reports.
func BackendInfo() string {
	var feats []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasSSE2 {
			feats = append(feats, "sse2")
		}
		if cpu.X86.HasAVX2 {
			feats = append(feats, "avx2")
		}
		if cpu.X86.HasFMA {
			feats = append(feats, "fma")
		}
		if cpu.X86.HasAVX512F {
			feats = append(feats, "avx512f")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			feats = append(feats, "asimd")
		}
		if cpu.ARM64.HasFPHP {
			feats = append(feats, "fphp")
		}
	}
	if len(feats) == 0 {
		feats = append(feats, "generic")
	}
	return backendName + " (" + runtime.GOARCH + ": " + strings.Join(feats, ",") + ")"
}
