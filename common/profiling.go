package common

import (
	"fmt"
	"os"
	"runtime/trace"
	"testing"

	"github.com/pkg/profile"
)

// ProfileTrace runs the benchmark function with, optionally, cpu profiling
// and execution tracing. Outputs land under dir/profiling, named after the
// benchmark.
func ProfileTrace(b *testing.B, profiled, traced bool, dir string, fn func()) {
	var pprof interface{ Stop() }

	if traced {
		f, err := os.Create(fmt.Sprintf("%v/profiling/%v-trace.out", dir, b.Name()))
		if err != nil {
			b.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			b.Fatal(err)
		}
		defer trace.Stop()
	}

	if profiled {
		pprof = profile.Start(
			profile.ProfilePath(fmt.Sprintf("%v/profiling/%v-pprof", dir, b.Name())),
			profile.Quiet,
		)
		defer pprof.Stop()
	}

	b.StartTimer()
	defer b.StopTimer()

	fn()
}
