// spix/sim.go

package spix

// Sim is a deterministic in-memory peripheral implementing Bus. It backs the
// package tests, the host selftest commands, and the examples, standing in
// for hardware the way the host shim does in builds without a device.
//
// Words stored to TXDR sit in the TX FIFO until the next SR read, when they
// are clocked across the bus: each pending word is transformed and pushed
// into the RX FIFO. A word clocked in while the RX FIFO already holds
// FIFODepth words is lost and latches the overrun fault, which is exactly
// the failure a real peripheral produces when the in-flight bound is
// violated.
type Sim struct {
	// Transform maps each transmitted word to the word clocked back in by
	// the simulated slave. nil means plain loopback.
	Transform func(byte) byte

	txq  []byte
	rxq  []byte
	sent []byte

	faults Status // latched fault bits, merged into every snapshot
	hold   Status // flags forced low, to provoke timeouts
	holdN  int    // >0: hold releases after this many status reads

	enabled   bool
	cfg       Config
	baud      BaudRate
	ier       uint32
	ifcr      uint32
	enableLog []bool

	statusReads  int
	txStores     int
	rxLoads      int
	starts       int
	rxUnderflows int
	maxPending   int
}

// NewSim returns a fresh simulated peripheral with an empty FIFO pair.
func NewSim() *Sim { return &Sim{} }

// ---------- Bus implementation ----------

func (s *Sim) Status() Status {
	s.statusReads++
	s.clockTx()
	if s.holdN > 0 {
		s.holdN--
		if s.holdN == 0 {
			s.hold = 0
		}
	}
	// The TX FIFO was just drained, so the TX side reads as idle.
	st := StatusTXP | StatusTXC | StatusEOT
	if n := len(s.rxq); n > 0 {
		st |= StatusRXP | StatusDXP
		// RXWNE needs a full 32-bit word (4 frames); below that the
		// occupancy shows in RXPLVL.
		if n >= 4 {
			st |= StatusRXWNE
		} else {
			st |= Status(n) << rxplvlPos
		}
	}
	st |= s.faults
	st &^= s.hold
	return st
}

func (s *Sim) WriteTx(w byte) {
	s.txStores++
	s.sent = append(s.sent, w)
	s.txq = append(s.txq, w)
}

// clockTx moves every pending TX word across the simulated bus.
func (s *Sim) clockTx() {
	for len(s.txq) > 0 {
		w := s.txq[0]
		s.txq = s.txq[1:]
		if s.Transform != nil {
			w = s.Transform(w)
		}
		if len(s.rxq) >= FIFODepth {
			// RX FIFO full: the word is lost and the overrun flag latches.
			s.faults |= StatusOVR
			continue
		}
		s.rxq = append(s.rxq, w)
		if len(s.rxq) > s.maxPending {
			s.maxPending = len(s.rxq)
		}
	}
}

func (s *Sim) ReadRx() byte {
	s.rxLoads++
	if len(s.rxq) == 0 {
		s.rxUnderflows++
		return 0
	}
	b := s.rxq[0]
	s.rxq = s.rxq[1:]
	return b
}

func (s *Sim) Start() {
	s.starts++
}

func (s *Sim) SetEnable(on bool) {
	s.enabled = on
	s.enableLog = append(s.enableLog, on)
}

func (s *Sim) Configure(cfg Config) { s.cfg = cfg; s.baud = cfg.BaudRate }

func (s *Sim) SetBaudRate(baud BaudRate) { s.baud = baud }

func (s *Sim) EnableInterruptBits(mask uint32) { s.ier |= mask }

func (s *Sim) ClearInterruptFlags(mask uint32) { s.ifcr |= mask }

// ---------- Test controls ----------

// InjectFault latches one fault flag into every subsequent snapshot.
func (s *Sim) InjectFault(kind FaultKind) {
	s.faults |= faultStatusBit(kind)
}

// ClearFaults drops all latched fault flags.
func (s *Sim) ClearFaults() { s.faults = 0 }

// HoldLow forces the given flags to read as clear, making any poll on them
// spin until ReleaseAfter fires (or forever).
func (s *Sim) HoldLow(flags Status) { s.hold = flags }

// ReleaseAfter drops the held-low flags after the given number of further
// status reads.
func (s *Sim) ReleaseAfter(reads int) { s.holdN = reads }

// PreloadRx places stale words in the RX FIFO, as left behind by an earlier
// transaction.
func (s *Sim) PreloadRx(words ...byte) {
	s.rxq = append(s.rxq, words...)
	if len(s.rxq) > s.maxPending {
		s.maxPending = len(s.rxq)
	}
}

// ---------- Observations ----------

// Sent returns every word stored to TXDR, in order.
func (s *Sim) Sent() []byte { return s.sent }

// Pending returns the current RX FIFO occupancy.
func (s *Sim) Pending() int { return len(s.rxq) }

// MaxPending returns the high-water mark of RX FIFO occupancy, i.e. the most
// words the driver ever left in flight.
func (s *Sim) MaxPending() int { return s.maxPending }

// StatusReads returns the number of SR reads performed.
func (s *Sim) StatusReads() int { return s.statusReads }

// TxStores returns the number of TXDR stores performed.
func (s *Sim) TxStores() int { return s.txStores }

// RxLoads returns the number of RXDR loads performed.
func (s *Sim) RxLoads() int { return s.rxLoads }

// RxUnderflows returns the number of RXDR loads issued against an empty
// FIFO.
func (s *Sim) RxUnderflows() int { return s.rxUnderflows }

// Starts returns the number of CSTART assertions.
func (s *Sim) Starts() int { return s.starts }

// Enabled reports the current SPE state.
func (s *Sim) Enabled() bool { return s.enabled }

// EnableLog returns every SPE write in order.
func (s *Sim) EnableLog() []bool { return s.enableLog }

// Config returns the configuration applied by New.
func (s *Sim) Config() Config { return s.cfg }

// Baud returns the current baud divisor.
func (s *Sim) Baud() BaudRate { return s.baud }

// IER returns the accumulated interrupt-enable bits.
func (s *Sim) IER() uint32 { return s.ier }

// ClearedFlags returns the accumulated IFCR writes.
func (s *Sim) ClearedFlags() uint32 { return s.ifcr }

func faultStatusBit(kind FaultKind) Status {
	switch kind {
	case FaultModeFault:
		return StatusMODF
	case FaultCRCError:
		return StatusCRCE
	case FaultOverrun:
		return StatusOVR
	case FaultUnderrun:
		return StatusUDR
	case FaultTIFrameError:
		return StatusTIFRE
	}
	return 0
}
