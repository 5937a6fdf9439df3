// spix/interrupt.go

package spix

// Interrupt enumerates the peripheral interrupt kinds. Enable them in the
// IER register, check with SR, clear with IFCR. This surface is a pure
// bit-toggle pass-through: it is an independent notification path, never
// coordinated with the blocking engine, and using both concurrently on one
// instance is undefined.
type Interrupt uint8

const (
	// InterruptNumberOfTransactionsReload (TSERFIE).
	InterruptNumberOfTransactionsReload Interrupt = iota
	// InterruptModeFault (MODFIE).
	InterruptModeFault
	// InterruptTIFrameError (TIFREIE).
	InterruptTIFrameError
	// InterruptCRCError (CRCEIE).
	InterruptCRCError
	// InterruptOverrun (OVRIE).
	InterruptOverrun
	// InterruptUnderrun (UDRIE).
	InterruptUnderrun
	// InterruptTxFIFOThreshold (TXTFIE).
	InterruptTxFIFOThreshold
	// InterruptEndOfTransaction covers EOT, SUSP and TXC (EOTIE).
	InterruptEndOfTransaction
	// InterruptDuplexData (DXP). No IER mapping; see interruptBit.
	InterruptDuplexData
	// InterruptTxData (TXP). No IER mapping; see interruptBit.
	InterruptTxData
	// InterruptRxData (RXP). No IER mapping; see interruptBit.
	InterruptRxData
)

// IER bit positions. The IFCR flag-clear bits share the same positions for
// the kinds that can be cleared.
const (
	ierEOTIE   = 1 << 3
	ierTXTFIE  = 1 << 4
	ierUDRIE   = 1 << 5
	ierOVRIE   = 1 << 6
	ierCRCEIE  = 1 << 7
	ierTIFREIE = 1 << 8
	ierMODFIE  = 1 << 9
	ierTSERFIE = 1 << 10
)

// interruptBit maps a kind to its IER/IFCR bit. The duplex/TX-data/RX-data
// kinds have no mapping here: rather than silently aliasing them to an
// unrelated bit, they are rejected as unsupported.
func interruptBit(kind Interrupt) (uint32, error) {
	switch kind {
	case InterruptNumberOfTransactionsReload:
		return ierTSERFIE, nil
	case InterruptModeFault:
		return ierMODFIE, nil
	case InterruptTIFrameError:
		return ierTIFREIE, nil
	case InterruptCRCError:
		return ierCRCEIE, nil
	case InterruptOverrun:
		return ierOVRIE, nil
	case InterruptUnderrun:
		return ierUDRIE, nil
	case InterruptTxFIFOThreshold:
		return ierTXTFIE, nil
	case InterruptEndOfTransaction:
		return ierEOTIE, nil
	}
	return 0, ErrUnsupportedInterrupt
}

// EnableInterrupt enables one interrupt kind in IER.
func (spi *SPI) EnableInterrupt(kind Interrupt) error {
	bit, err := interruptBit(kind)
	if err != nil {
		return err
	}
	spi.Bus.EnableInterruptBits(bit)
	return nil
}

// ClearInterrupt clears one interrupt flag through IFCR.
func (spi *SPI) ClearInterrupt(kind Interrupt) error {
	bit, err := interruptBit(kind)
	if err != nil {
		return err
	}
	spi.Bus.ClearInterruptFlags(bit)
	return nil
}
