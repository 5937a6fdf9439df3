// spix/engine.go

package spix

// Word-level primitives. Faults are only checked once at entry to each
// primitive, matching the peripheral's latched-fault semantics; the poll
// loops themselves watch a single availability flag.

// sendWord queues one word without waiting for the receive side. Used only
// while priming, when fewer than FIFODepth words are in flight.
func (spi *SPI) sendWord(w byte) error {
	if err := spi.checkErrors(); err != nil {
		return err
	}
	spi.Bus.WriteTx(w)
	// CSTART begins the transaction in master mode; re-asserting it once a
	// transaction is running has no effect.
	spi.Bus.Start()
	return nil
}

// exchangeWord stores one word and loads the word received in its place.
//
//   - Assumes the transaction has started (CSTART handled by sendWord).
//   - Assumes at least one word is already in flight.
//
// The DXP flag is awaited before touching the data registers: a store issued
// while the RX FIFO is full would overrun it, so the poll is what holds the
// in-flight count at FIFODepth.
func (spi *SPI) exchangeWord(w byte) (byte, error) {
	if err := spi.checkErrors(); err != nil {
		return 0, err
	}

	var i uint32
	for !spi.Bus.Status().DuplexAvailable() {
		i++
		if i >= spi.maxIters*10 {
			return 0, ErrTimeout
		}
	}

	spi.Bus.WriteTx(w)
	return spi.Bus.ReadRx(), nil
}

// receiveWord loads one word without sending. Used to drain the pipeline
// once every word of the buffer has been queued.
func (spi *SPI) receiveWord() (byte, error) {
	if err := spi.checkErrors(); err != nil {
		return 0, err
	}

	var i uint32
	for !spi.Bus.Status().RxNotEmpty() {
		i++
		if i >= spi.maxIters*10 {
			return 0, ErrTimeout
		}
	}

	return spi.Bus.ReadRx(), nil
}

// ReadWord blocks for a single received word outside of a pipelined
// transfer. The wait is bounded by MaxIters (not the 10x transfer bound).
func (spi *SPI) ReadWord() (byte, error) {
	if err := spi.checkErrors(); err != nil {
		return 0, err
	}

	var i uint32
	for !spi.Bus.Status().RxWordNotEmpty() {
		i++
		if i >= spi.maxIters {
			return 0, ErrTimeout
		}
	}

	return spi.Bus.ReadRx(), nil
}

// WriteWord blocks until the previous transmission completed, then queues a
// single word. The wait is bounded by MaxIters.
func (spi *SPI) WriteWord(w byte) error {
	if err := spi.checkErrors(); err != nil {
		return err
	}

	var i uint32
	for !spi.Bus.Status().TxComplete() {
		i++
		if i >= spi.maxIters {
			return ErrTimeout
		}
	}

	spi.Bus.WriteTx(w)
	return nil
}
