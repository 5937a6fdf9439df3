// spix/spix_stm32.go

//go:build tinygo && stm32

package spix

import (
	"runtime/volatile"
	"unsafe"
)

// Register backend for the H7-style SPI block. Only the Bus methods touch
// registers; everything above them is shared with the host build.

// spiRegs is the SPI register block layout (H743 RM section 50.6).
type spiRegs struct {
	CR1     volatile.Register32 // 0x00 control 1 (SPE, CSTART, SSI)
	CR2     volatile.Register32 // 0x04 control 2 (TSIZE)
	CFG1    volatile.Register32 // 0x08 configuration 1 (DSIZE, CRCEN, MBR)
	CFG2    volatile.Register32 // 0x0C configuration 2 (COMM, MASTER, CPOL/CPHA, SSM/SSOE)
	IER     volatile.Register32 // 0x10 interrupt enable
	SR      volatile.Register32 // 0x14 status
	IFCR    volatile.Register32 // 0x18 interrupt flag clear
	_       volatile.Register32 // 0x1C reserved
	TXDR    volatile.Register32 // 0x20 transmit data
	_       [3]volatile.Register32
	RXDR    volatile.Register32 // 0x30 receive data
	CRCPOLY volatile.Register32 // 0x34
	TXCRC   volatile.Register32 // 0x38
	RXCRC   volatile.Register32 // 0x3C
	UDRDR   volatile.Register32 // 0x40
}

const (
	cr1SPE    = 1 << 0
	cr1CSTART = 1 << 9
	cr1SSI    = 1 << 12

	cfg1DSIZEPos = 0
	cfg1DSIZEMsk = 0x1f << cfg1DSIZEPos
	cfg1CRCEN    = 1 << 22
	cfg1MBRPos   = 28
	cfg1MBRMsk   = 0x7 << cfg1MBRPos

	cfg2MIDIPos = 4
	cfg2MIDIMsk = 0xf << cfg2MIDIPos
	cfg2COMMPos = 17
	cfg2COMMMsk = 0x3 << cfg2COMMPos
	cfg2MASTER  = 1 << 22
	cfg2CPHA    = 1 << 24
	cfg2CPOL    = 1 << 25
	cfg2SSM     = 1 << 26
	cfg2SSOE    = 1 << 29

	cr2TSIZEPos = 0
	cr2TSIZEMsk = 0xffff << cr2TSIZEPos
)

// SPI base addresses (APB2/APB1 on the H7).
var (
	SPI1Bus Bus = &hwBus{regs: (*spiRegs)(unsafe.Pointer(uintptr(0x4001_3000)))}
	SPI2Bus Bus = &hwBus{regs: (*spiRegs)(unsafe.Pointer(uintptr(0x4000_3800)))}
	SPI3Bus Bus = &hwBus{regs: (*spiRegs)(unsafe.Pointer(uintptr(0x4000_3C00)))}
)

type hwBus struct {
	regs *spiRegs
}

func (b *hwBus) Status() Status { return Status(b.regs.SR.Get()) }

func (b *hwBus) WriteTx(w byte) {
	// Exactly one byte-wide store. A full-width access would advance the TX
	// FIFO pointer by a whole word regardless of DSIZE.
	(*volatile.Register8)(unsafe.Pointer(&b.regs.TXDR)).Set(w)
}

func (b *hwBus) ReadRx() byte {
	// Same width contract as WriteTx, on the RX FIFO pointer.
	return (*volatile.Register8)(unsafe.Pointer(&b.regs.RXDR)).Get()
}

func (b *hwBus) Start() { b.regs.CR1.SetBits(cr1CSTART) }

func (b *hwBus) SetEnable(on bool) {
	if on {
		b.regs.CR1.SetBits(cr1SPE)
	} else {
		b.regs.CR1.ClearBits(cr1SPE)
	}
}

// Configure follows the master-mode setup order of H743 RM section 50.4.8.
// GPIO and RCC clocking are the application's job (step 1 of the RM flow).
func (b *hwBus) Configure(cfg Config) {
	if cfg.SlaveSelect == SlaveSelectSoftware {
		b.regs.CR1.SetBits(cr1SSI)
	} else {
		b.regs.CR1.ClearBits(cr1SSI)
	}

	cfg1 := b.regs.CFG1.Get()
	cfg1 &^= cfg1DSIZEMsk | cfg1MBRMsk | cfg1CRCEN
	cfg1 |= uint32(cfg.DataSize) << cfg1DSIZEPos
	cfg1 |= uint32(cfg.BaudRate) << cfg1MBRPos
	b.regs.CFG1.Set(cfg1)

	cfg2 := b.regs.CFG2.Get()
	cfg2 &^= cfg2CPOL | cfg2CPHA | cfg2SSM | cfg2SSOE | cfg2MIDIMsk | cfg2COMMMsk
	if cfg.Mode.Polarity() {
		cfg2 |= cfg2CPOL
	}
	if cfg.Mode.Phase() {
		cfg2 |= cfg2CPHA
	}
	if cfg.SlaveSelect == SlaveSelectSoftware {
		cfg2 |= cfg2SSM
	} else {
		cfg2 |= cfg2SSOE
	}
	cfg2 |= cfg2MASTER
	// COMM=00: full duplex. MIDI=0: no inter-word delay.
	b.regs.CFG2.Set(cfg2)

	// TSIZE=0: transfer length not known up front.
	b.regs.CR2.ClearBits(cr2TSIZEMsk)
}

func (b *hwBus) SetBaudRate(baud BaudRate) {
	cfg1 := b.regs.CFG1.Get()
	cfg1 &^= cfg1MBRMsk
	cfg1 |= uint32(baud) << cfg1MBRPos
	b.regs.CFG1.Set(cfg1)
}

func (b *hwBus) EnableInterruptBits(mask uint32) { b.regs.IER.SetBits(mask) }

func (b *hwBus) ClearInterruptFlags(mask uint32) { b.regs.IFCR.Set(mask) }
