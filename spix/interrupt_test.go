package spix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnableInterrupt_BitMapping(t *testing.T) {
	cases := []struct {
		kind Interrupt
		bit  uint32
	}{
		{InterruptNumberOfTransactionsReload, ierTSERFIE},
		{InterruptModeFault, ierMODFIE},
		{InterruptTIFrameError, ierTIFREIE},
		{InterruptCRCError, ierCRCEIE},
		{InterruptOverrun, ierOVRIE},
		{InterruptUnderrun, ierUDRIE},
		{InterruptTxFIFOThreshold, ierTXTFIE},
		{InterruptEndOfTransaction, ierEOTIE},
	}
	for _, c := range cases {
		sim := NewSim()
		spi := newTestSPI(sim)

		require.NoError(t, spi.EnableInterrupt(c.kind))
		require.Equal(t, c.bit, sim.IER(), "kind %d", c.kind)

		require.NoError(t, spi.ClearInterrupt(c.kind))
		require.Equal(t, c.bit, sim.ClearedFlags(), "kind %d", c.kind)
	}
}

func TestEnableInterrupt_UnmappedKindsRejected(t *testing.T) {
	// DXP/TXP/RXP have no enable bit mapping; aliasing them to another bit
	// would arm an unrelated interrupt, so they are rejected outright.
	for _, kind := range []Interrupt{InterruptDuplexData, InterruptTxData, InterruptRxData} {
		sim := NewSim()
		spi := newTestSPI(sim)

		require.Equal(t, ErrUnsupportedInterrupt, spi.EnableInterrupt(kind))
		require.Equal(t, ErrUnsupportedInterrupt, spi.ClearInterrupt(kind))
		require.Equal(t, uint32(0), sim.IER())
		require.Equal(t, uint32(0), sim.ClearedFlags())
	}
}
