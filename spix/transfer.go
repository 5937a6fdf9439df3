// spix/transfer.go

package spix

// Write transmits every word of p in order, blocking until complete. The
// words clocked back in are drained and discarded; draining is still
// required, as a full RX FIFO would overrun.
//
// Any fault or timeout aborts immediately and leaves the FIFO and bus state
// undefined. Recovery is the caller's: Disable, then reconfigure.
func (spi *SPI) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	// Prime the TX FIFO.
	n := min(FIFODepth, len(p))
	for _, w := range p[:n] {
		if err := spi.sendWord(w); err != nil {
			return err
		}
	}

	// Continue filling the TX FIFO while emptying the RX FIFO.
	for _, w := range p[n:] {
		if _, err := spi.exchangeWord(w); err != nil {
			return err
		}
	}

	// Drain the residual received words.
	for i := 0; i < n; i++ {
		if _, err := spi.receiveWord(); err != nil {
			return err
		}
	}

	return nil
}

// Transfer performs a full-duplex exchange in place: on return, p[i] holds
// the word received in response to transmitting the original p[i]. The
// buffer itself serves as the pipeline delay line, so no auxiliary storage
// is allocated.
//
// Abort semantics match Write.
func (spi *SPI) Transfer(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	// Prime the TX FIFO.
	for i := 0; i < min(FIFODepth, len(p)); i++ {
		if err := spi.sendWord(p[i]); err != nil {
			return err
		}
	}

	// Each iteration retires the word FIFODepth positions behind the one
	// being sent. Past the end of p, only the drain side remains.
	for i := FIFODepth; i < len(p)+FIFODepth; i++ {
		if i < len(p) {
			v, err := spi.exchangeWord(p[i])
			if err != nil {
				return err
			}
			p[i-FIFODepth] = v
		} else {
			v, err := spi.receiveWord()
			if err != nil {
				return err
			}
			p[i-FIFODepth] = v
		}
	}

	return nil
}
