// spix/spix.go

// Package spix provides a blocking SPI master driver for the STM32H7-style
// SPI peripheral (the family with a hardware TX/RX FIFO pair and the
// TXDR/RXDR data registers). Write and Transfer pipeline words through the
// hardware FIFOs, keeping at most FIFODepth words in flight so the receive
// side can never overrun. All waits are tight busy-polls with an iteration
// bound; nothing yields to the scheduler.
//
// The driver talks to hardware exclusively through the Bus capability, so it
// can be exercised against the in-memory Sim peripheral on any platform. The
// real register backend is selected with the stm32 build tag.
package spix

// FIFODepth is the number of words the driver allows in flight (sent but not
// yet received). All current parts in the family have a FIFO of at least 8
// words (RM0433 Rev 7, table 409); 4 is a conservative value shared across
// the family.
const FIFODepth = 4

// DefaultMaxIters is the busy-wait bound used when Config.MaxIters is zero.
// Poll loops inside Write/Transfer allow 10x this many iterations; the
// single-word helpers allow exactly this many. The bound is an iteration
// count, not a wall-clock timer, so the effective timeout scales with CPU
// clock speed.
const DefaultMaxIters = 300

// SPIMode sets clock polarity and phase (CPOL/CPHA).
type SPIMode uint8

const (
	Mode0 SPIMode = iota // CPOL=0 CPHA=0
	Mode1                // CPOL=0 CPHA=1
	Mode2                // CPOL=1 CPHA=0
	Mode3                // CPOL=1 CPHA=1
)

// Polarity reports the CPOL bit of the mode.
func (m SPIMode) Polarity() bool { return m&0b10 != 0 }

// Phase reports the CPHA bit of the mode.
func (m SPIMode) Phase() bool { return m&0b01 != 0 }

// BaudRate selects the kernel-clock divisor (CFG1.MBR field encoding).
type BaudRate uint8

const (
	Div2 BaudRate = iota
	Div4
	Div8
	Div16
	Div32
	Div64
	Div128
	Div256
)

// SlaveSelect selects how NSS is driven.
type SlaveSelect uint8

const (
	// SlaveSelectHardware lets the peripheral drive the NSS pin.
	SlaveSelectHardware SlaveSelect = iota
	// SlaveSelectSoftware manages NSS in software (SSM/SSI), leaving the pin
	// free for GPIO.
	SlaveSelectSoftware
)

// DataSize is the number of bits in a single SPI data frame, encoded as the
// CFG1.DSIZE field value (bits - 1). The blocking engine itself is
// byte-granular; wider frames only change the peripheral configuration.
type DataSize uint8

const (
	D4 DataSize = iota + 3
	D5
	D6
	D7
	D8
	D9
	D10
	D11
	D12
	D13
	D14
	D15
	D16
	D17
	D18
	D19
	D20
	D21
	D22
	D23
	D24
	D25
	D26
	D27
	D28
	D29
	D30
	D31
	D32
)

// Config holds the construction-time peripheral configuration.
type Config struct {
	Mode        SPIMode
	DataSize    DataSize
	SlaveSelect SlaveSelect
	BaudRate    BaudRate

	// MaxIters overrides the busy-wait bound. Zero selects DefaultMaxIters.
	MaxIters uint32
}

// SPI is one peripheral instance. Exclusive access is a caller invariant:
// the driver takes no locks, and mixing the blocking operations with the
// interrupt surface on the same instance is undefined.
type SPI struct {
	Bus Bus

	cfg      Config
	maxIters uint32
}

// New configures the peripheral through bus (slave-select management, frame
// size, mode, baud divisor, full-duplex, CRC off, TSIZE zeroed) and enables
// it. GPIO and peripheral-clock setup are the application's responsibility.
func New(bus Bus, cfg Config) *SPI {
	if cfg.DataSize == 0 {
		cfg.DataSize = D8
	}
	iters := cfg.MaxIters
	if iters == 0 {
		iters = DefaultMaxIters
	}
	bus.Configure(cfg)
	bus.SetEnable(true)
	return &SPI{Bus: bus, cfg: cfg, maxIters: iters}
}

// Reclock changes the baud divisor. The peripheral must be quiescent; the
// enable bit is dropped around the divisor update as the reference manual
// requires.
func (spi *SPI) Reclock(baud BaudRate) {
	spi.Bus.SetEnable(false)
	spi.Bus.SetBaudRate(baud)
	spi.Bus.SetEnable(true)
	spi.cfg.BaudRate = baud
}
