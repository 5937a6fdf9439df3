package spix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// invert is the simulated slave used by most tests: echoing the complement
// makes it obvious whether a received word lines up with the word whose
// transmission produced it.
func invert(b byte) byte { return ^b }

func newTestSPI(sim *Sim) *SPI {
	return New(sim, Config{MaxIters: 8})
}

func seq(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(0x10 + i)
	}
	return p
}

func TestWrite_EmptyBufferTouchesNoRegisters(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)

	require.NoError(t, spi.Write(nil))
	require.NoError(t, spi.Write([]byte{}))

	require.Equal(t, 0, sim.StatusReads())
	require.Equal(t, 0, sim.TxStores())
	require.Equal(t, 0, sim.RxLoads())
	require.Equal(t, 0, sim.Starts())
}

func TestTransfer_EmptyBufferTouchesNoRegisters(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)

	require.NoError(t, spi.Transfer(nil))

	require.Equal(t, 0, sim.StatusReads())
	require.Equal(t, 0, sim.TxStores())
	require.Equal(t, 0, sim.RxLoads())
}

func TestTransfer_EchoPipeline(t *testing.T) {
	// Lengths below, at, and above the FIFO depth.
	for _, n := range []int{1, 2, 3, 4, 5, 7, 12} {
		sim := NewSim()
		sim.Transform = invert
		spi := newTestSPI(sim)

		data := seq(n)
		buf := append([]byte(nil), data...)
		require.NoError(t, spi.Transfer(buf), "length %d", n)

		for i := range data {
			require.Equal(t, invert(data[i]), buf[i], "length %d position %d", n, i)
		}
		require.Equal(t, data, sim.Sent(), "length %d", n)
	}
}

func TestTransfer_ExactAccessCounts(t *testing.T) {
	for _, n := range []int{1, 3, 4, 6, 9} {
		sim := NewSim()
		spi := newTestSPI(sim)

		require.NoError(t, spi.Transfer(seq(n)))

		require.Equal(t, n, sim.TxStores(), "length %d", n)
		require.Equal(t, n, sim.RxLoads(), "length %d", n)
		require.Equal(t, 0, sim.RxUnderflows(), "length %d", n)
	}
}

func TestTransfer_InFlightNeverExceedsFIFODepth(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)

	require.NoError(t, spi.Transfer(seq(64)))

	// The Sim latches overrun the moment a fifth word is left in flight, so
	// a clean run plus the high-water mark pins the invariant.
	require.True(t, sim.MaxPending() <= FIFODepth,
		"in-flight high-water mark %d exceeds FIFO depth", sim.MaxPending())
	require.Equal(t, 0, sim.RxUnderflows())
}

func TestWrite_TransmitsInOrderAndDiscards(t *testing.T) {
	sim := NewSim()
	sim.Transform = invert
	spi := newTestSPI(sim)

	data := seq(9)
	buf := append([]byte(nil), data...)
	require.NoError(t, spi.Write(buf))

	require.Equal(t, data, sim.Sent())
	require.Equal(t, data, buf) // write-only: caller buffer untouched
	require.Equal(t, len(data), sim.RxLoads())
	require.Equal(t, 0, sim.Pending()) // fully drained
}

func TestWrite_ShortBuffer(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		sim := NewSim()
		spi := newTestSPI(sim)

		require.NoError(t, spi.Write(seq(n)))
		require.Equal(t, n, sim.TxStores(), "length %d", n)
		require.Equal(t, n, sim.RxLoads(), "length %d", n)
	}
}

func TestWrite_AssertsTransactionStart(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)

	require.NoError(t, spi.Write(seq(6)))
	// CSTART is asserted per primed word; re-assertion is idempotent.
	require.Equal(t, FIFODepth, sim.Starts())
}

func TestTransfer_FaultBeforeFirstWord(t *testing.T) {
	kinds := []FaultKind{
		FaultModeFault,
		FaultCRCError,
		FaultOverrun,
		FaultUnderrun,
		FaultTIFrameError,
	}
	for _, kind := range kinds {
		sim := NewSim()
		spi := newTestSPI(sim)
		sim.InjectFault(kind)

		err := spi.Transfer(seq(5))
		require.Error(t, err, "kind %v", kind)

		var fe *FaultError
		require.True(t, errors.As(err, &fe), "kind %v", kind)
		require.Equal(t, kind, fe.Kind)

		// Fail fast: no data register was touched.
		require.Equal(t, 0, sim.TxStores(), "kind %v", kind)
		require.Equal(t, 0, sim.RxLoads(), "kind %v", kind)
	}
}

func TestWrite_FaultBeforeFirstWord(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)
	sim.InjectFault(FaultOverrun)

	err := spi.Write(seq(3))
	var fe *FaultError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FaultOverrun, fe.Kind)
	require.Equal(t, 0, sim.TxStores())
	require.Equal(t, 0, sim.RxLoads())
}

func TestWrite_FaultMidTransferAborts(t *testing.T) {
	sim := NewSim()
	spi := newTestSPI(sim)

	// The fault latches after priming: the first exchange must abort before
	// storing its word.
	data := seq(8)
	primed := 0
	sim.Transform = func(b byte) byte {
		primed++
		if primed == FIFODepth {
			sim.InjectFault(FaultCRCError)
		}
		return b
	}

	err := spi.Write(data)
	var fe *FaultError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FaultCRCError, fe.Kind)
	require.Equal(t, FIFODepth, sim.TxStores())
}
