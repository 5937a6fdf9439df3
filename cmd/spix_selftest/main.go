// Host self test: runs the driver against the simulated peripheral and
// verifies the pipeline discipline end to end. Exits non-zero on the first
// category of failure, for use in CI.
package main

import (
	"bytes"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/jangala-dev/tinygo-spix/spix"
)

var failures int

func check(name string, ok bool) {
	if ok {
		glog.V(1).Infof("ok   %s", name)
		return
	}
	failures++
	glog.Errorf("FAIL %s", name)
}

func invert(b byte) byte { return ^b }

func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 1)
	}
	return p
}

func main() {
	flag.Parse()
	defer glog.Flush()

	// Full-duplex echo across the FIFO-depth boundary.
	for _, n := range []int{1, 3, 4, 5, 16, 64} {
		sim := spix.NewSim()
		sim.Transform = invert
		spi := spix.New(sim, spix.Config{})

		data := pattern(n)
		buf := append([]byte(nil), data...)
		err := spi.Transfer(buf)
		check("transfer completes", err == nil)
		check("transmit order preserved", bytes.Equal(sim.Sent(), data))
		check("in-flight bounded", sim.MaxPending() <= spix.FIFODepth)

		want := make([]byte, n)
		for i := range data {
			want[i] = invert(data[i])
		}
		check("echo pipeline aligned", bytes.Equal(buf, want))
	}

	// Write-only path drains everything it clocks in.
	{
		sim := spix.NewSim()
		spi := spix.New(sim, spix.Config{})
		data := pattern(23)
		err := spi.Write(data)
		check("write completes", err == nil)
		check("write order preserved", bytes.Equal(sim.Sent(), data))
		check("rx fully drained", sim.Pending() == 0)
	}

	// Timeout is deterministic in status-read counts.
	{
		reads := make([]int, 2)
		for i := range reads {
			sim := spix.NewSim()
			spi := spix.New(sim, spix.Config{MaxIters: 50})
			sim.HoldLow(spix.StatusRXP)
			err := spi.Transfer([]byte{0x55})
			check("stuck flag times out", err == spix.ErrTimeout)
			reads[i] = sim.StatusReads()
		}
		check("timeout reproducible", reads[0] == reads[1])
	}

	// Disable drains stale words and clears SPE.
	{
		sim := spix.NewSim()
		spi := spix.New(sim, spix.Config{})
		sim.PreloadRx(pattern(6)...)
		spi.Disable()
		check("disable drains stale rx", sim.RxLoads() == 6 && sim.Pending() == 0)
		check("disable clears enable", !sim.Enabled())
	}

	if failures > 0 {
		glog.Errorf("selftest: %d check(s) failed", failures)
		glog.Flush()
		os.Exit(1)
	}
	glog.Info("selftest: all checks passed")
}
