//go:build arm64

package scanner

import (
	"golang.org/x/sys/cpu"
)

// ASIMD is mandatory on arm64 but some emulators still report it off.
func hasSIMD() bool {
	return cpu.ARM64.HasASIMD
}

func features() string {
	if hasSIMD() {
		return "asimd"
	}
	return "scalar"
}
