// spix/status.go

package spix

// Status is one immutable read of the SPI status register (SR). It is never
// cached: every poll iteration takes a fresh snapshot through Bus.Status.
// Bit layout follows the H7 SR map.
type Status uint32

const (
	StatusRXP   Status = 1 << 0  // RX FIFO not empty
	StatusTXP   Status = 1 << 1  // TX FIFO has space
	StatusDXP   Status = 1 << 2  // duplex: RXP and TXP both set
	StatusEOT   Status = 1 << 3  // end of transaction
	StatusTXTF  Status = 1 << 4  // TX FIFO threshold
	StatusUDR   Status = 1 << 5  // underrun fault
	StatusOVR   Status = 1 << 6  // overrun fault
	StatusCRCE  Status = 1 << 7  // CRC error fault
	StatusTIFRE Status = 1 << 8  // TI frame error fault
	StatusMODF  Status = 1 << 9  // mode fault
	StatusTSERF Status = 1 << 10 // additional transactions reload
	StatusSUSP  Status = 1 << 11 // suspend
	StatusTXC   Status = 1 << 12 // transmission complete
	StatusRXWNE Status = 1 << 15 // RX FIFO holds a complete word
)

const (
	rxplvlPos  = 13
	rxplvlMask = 0b11
)

// RxNotEmpty reports whether at least one received word is readable (RXP).
func (s Status) RxNotEmpty() bool { return s&StatusRXP != 0 }

// TxSpace reports whether the TX FIFO can accept a word (TXP).
func (s Status) TxSpace() bool { return s&StatusTXP != 0 }

// DuplexAvailable reports whether a word can be written and one read back in
// the same step (DXP).
func (s Status) DuplexAvailable() bool { return s&StatusDXP != 0 }

// EndOfTransaction reports the EOT completion flag.
func (s Status) EndOfTransaction() bool { return s&StatusEOT != 0 }

// TxComplete reports the TXC completion flag.
func (s Status) TxComplete() bool { return s&StatusTXC != 0 }

// RxWordNotEmpty reports whether the RX FIFO holds a complete word (RXWNE).
func (s Status) RxWordNotEmpty() bool { return s&StatusRXWNE != 0 }

// RxFIFOLevel returns the RXPLVL field: remaining RX FIFO frames when RXWNE
// is clear.
func (s Status) RxFIFOLevel() uint8 { return uint8(s>>rxplvlPos) & rxplvlMask }

// ModeFault reports the MODF fault flag.
func (s Status) ModeFault() bool { return s&StatusMODF != 0 }

// CRCError reports the CRCE fault flag.
func (s Status) CRCError() bool { return s&StatusCRCE != 0 }

// Overrun reports the OVR fault flag.
func (s Status) Overrun() bool { return s&StatusOVR != 0 }

// Underrun reports the UDR fault flag.
func (s Status) Underrun() bool { return s&StatusUDR != 0 }

// TIFrameError reports the TIFRE fault flag.
func (s Status) TIFrameError() bool { return s&StatusTIFRE != 0 }

// Bus is the register capability the driver runs against. Implementations
// must keep the data accesses width-exact: WriteTx performs exactly one
// single-width store to TXDR and ReadRx exactly one single-width load from
// RXDR. A wider access advances the hardware FIFO pointers by more than one
// word and corrupts the stream.
type Bus interface {
	// Status performs one SR read.
	Status() Status
	// WriteTx stores one word into the TX data register.
	WriteTx(w byte)
	// ReadRx loads one word from the RX data register.
	ReadRx() byte
	// Start asserts the transaction-start (CSTART) control bit. Asserting it
	// again mid-transaction is harmless.
	Start()
	// SetEnable sets or clears the peripheral-enable (SPE) bit.
	SetEnable(on bool)
	// Configure applies the construction-time configuration registers.
	Configure(cfg Config)
	// SetBaudRate updates only the baud divisor field.
	SetBaudRate(baud BaudRate)
	// EnableInterruptBits sets bits in the interrupt-enable register.
	EnableInterruptBits(mask uint32)
	// ClearInterruptFlags writes the interrupt flag-clear register.
	ClearInterruptFlags(mask uint32)
}
