// spix/disable.go

package spix

// Disable runs the peripheral disable procedure (L44 RM section 40.4.9).
// It is mandatory before stopping the peripheral clock or entering a
// low-power mode; skipping it can corrupt an in-flight transaction. The
// sequence is fixed:
//
//  1. Wait until TXC is set (no more data to transmit, last frame sent).
//  2. Wait until EOT is set.
//  3. Read the RX FIFO empty (until RXWNE=0 and RXPLVL=00).
//  4. Clear SPE.
//
// Disable must only be called with no transfer in progress; calling it
// mid-transfer is caller error. There is deliberately no timeout: a
// peripheral that never reaches the completion flags hangs the calling
// thread here. Hiding that behind a timer would contradict the documented
// hardware contract, so the hazard is surfaced rather than handled.
func (spi *SPI) Disable() {
	for !spi.Bus.Status().TxComplete() {
	}
	for !spi.Bus.Status().EndOfTransaction() {
	}
	// Raw loads: the bus is idle, so no classification and no new exchange.
	for {
		s := spi.Bus.Status()
		if !s.RxWordNotEmpty() && s.RxFIFOLevel() == 0 {
			break
		}
		spi.Bus.ReadRx()
	}
	spi.Bus.SetEnable(false)
}
