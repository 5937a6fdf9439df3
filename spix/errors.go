// spix/errors.go

package spix

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates a busy-wait bound was exceeded while polling a
	// status flag. The FIFO and bus state are undefined afterwards; recover
	// with Disable and reconfiguration.
	ErrTimeout = errors.New("SPI poll timeout")

	// ErrUnsupportedInterrupt indicates an Interrupt kind with no register
	// bit mapping (see interrupt.go).
	ErrUnsupportedInterrupt = errors.New("unsupported SPI interrupt kind")
)

// FaultKind identifies a latched hardware fault flag.
type FaultKind uint8

const (
	FaultModeFault FaultKind = iota + 1
	FaultCRCError
	FaultOverrun
	FaultUnderrun
	FaultTIFrameError
)

func (k FaultKind) String() string {
	switch k {
	case FaultModeFault:
		return "mode fault"
	case FaultCRCError:
		return "CRC error"
	case FaultOverrun:
		return "overrun"
	case FaultUnderrun:
		return "underrun"
	case FaultTIFrameError:
		return "TI frame error"
	}
	return fmt.Sprintf("fault(%d)", uint8(k))
}

// FaultError reports a hardware fault flag observed in the status register.
// The transfer was aborted at the point of detection with no recovery
// attempted.
type FaultError struct {
	Kind FaultKind
}

// Error implements error.
func (e *FaultError) Error() string {
	return fmt.Sprintf("SPI hardware fault: %s", e.Kind)
}

// classifyFault decodes a status snapshot into the highest-priority fault
// flag set, if any. Pure; the priority order is fixed.
func classifyFault(s Status) (FaultKind, bool) {
	switch {
	case s.ModeFault():
		return FaultModeFault, true
	case s.CRCError():
		return FaultCRCError, true
	case s.Overrun():
		return FaultOverrun, true
	case s.Underrun():
		return FaultUnderrun, true
	case s.TIFrameError():
		return FaultTIFrameError, true
	}
	return 0, false
}

// checkErrors takes one status snapshot and fails fast if a fault flag is
// latched, so no primitive acts on faulted hardware state.
func (spi *SPI) checkErrors() error {
	if kind, ok := classifyFault(spi.Bus.Status()); ok {
		return &FaultError{Kind: kind}
	}
	return nil
}
