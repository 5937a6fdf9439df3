// lowpower/lowpower.go

// Package lowpower implements the low-power mode entry sequences of the
// STM32 families as fixed register-write orders behind one Sequence
// interface, with one strategy per family and mode. Each strategy emits its
// documented write order against the System capability and nothing else.
//
// Entering any mode that stops peripheral clocks can corrupt an in-flight
// SPI transaction: the bus must be quiescent first (spix.SPI.Disable) before
// a sequence is entered. That precondition is the caller's, not checked
// here.
package lowpower

// StopMode selects the L4/L5 stop variant (PWR_CR1 LPMS field values,
// reference manual section 5.3.6).
type StopMode uint8

const (
	Stop0 StopMode = 0b000
	Stop1 StopMode = 0b001
	Stop2 StopMode = 0b010
)

const (
	lpmsStandby  = 0b011
	lpmsShutdown = 0b100
)

// System is the capability a sequence writes through: the Cortex-M sleep
// control bits, the PWR control fields, and the two actions that bracket a
// deep sleep.
type System interface {
	// SetSleepDeep sets or clears SCB.SLEEPDEEP.
	SetSleepDeep(on bool)
	// SetSleepOnExit sets or clears SCB.SLEEPONEXIT.
	SetSleepOnExit(on bool)
	// SetStopMode writes the PWR_CR1 LPMS field (L4/L5 families).
	SetStopMode(bits uint8)
	// SetStandby sets or clears the PWR_CR PDDS bit (F3 family).
	SetStandby(on bool)
	// SetRegulatorLowPower sets the PWR_CR LPDS bit (F3 family).
	SetRegulatorLowPower(on bool)
	// SetLowPowerRun sets or clears the PWR_CR1 LPR bit (L4/L5 families).
	SetLowPowerRun(on bool)
	// WaitRegulatorReady blocks until PWR_SR2 REGLPF clears.
	WaitRegulatorReady()
	// ClearWakeupFlags clears the WUFx wakeup flags.
	ClearWakeupFlags()
	// WaitForInterrupt executes WFI, entering the armed mode.
	WaitForInterrupt()
	// ReselectClock re-selects the system clock input after wakeup, since
	// stop modes fall back to the default oscillator.
	ReselectClock()
}

// Sequence is one low-power entry strategy.
type Sequence interface {
	// Name identifies the strategy for diagnostics.
	Name() string
	// Enter emits the strategy's fixed register-write order. For the deep
	// modes it returns only after wakeup.
	Enter(sys System)
}

// SleepNow enters Sleep mode immediately (SLEEPDEEP=0, SLEEPONEXIT=0, WFI).
type SleepNow struct{}

func (SleepNow) Name() string { return "sleep-now" }

func (SleepNow) Enter(sys System) {
	sys.SetSleepDeep(false)
	sys.SetSleepOnExit(false)
	sys.WaitForInterrupt()
}

// SleepOnExit arms Sleep mode on return from the lowest-priority ISR
// (SLEEPDEEP=0, SLEEPONEXIT=1, WFI).
type SleepOnExit struct{}

func (SleepOnExit) Name() string { return "sleep-on-exit" }

func (SleepOnExit) Enter(sys System) {
	sys.SetSleepDeep(false)
	sys.SetSleepOnExit(true)
	sys.WaitForInterrupt()
}

// F3Stop enters Stop mode on the F3 family (ref man table 20): SLEEPDEEP=1,
// PDDS=0, LPDS=1, WFI, then clock re-selection.
type F3Stop struct{}

func (F3Stop) Name() string { return "f3-stop" }

func (F3Stop) Enter(sys System) {
	sys.SetSleepDeep(true)
	sys.SetStandby(false)
	sys.SetRegulatorLowPower(true)
	sys.WaitForInterrupt()
	sys.ReselectClock()
}

// F3Standby enters Standby on the F3 family (ref man table 21): SLEEPDEEP=1,
// PDDS=1, wakeup flags cleared, WFI, clock re-selection.
type F3Standby struct{}

func (F3Standby) Name() string { return "f3-standby" }

func (F3Standby) Enter(sys System) {
	sys.SetSleepDeep(true)
	sys.SetStandby(true)
	sys.ClearWakeupFlags()
	sys.WaitForInterrupt()
	sys.ReselectClock()
}

// L4Stop enters Stop 0, 1, or 2 on the L4/L5 families (ref man tables
// 27-29): SLEEPDEEP=1, LPMS=mode, WFI, clock re-selection.
type L4Stop struct {
	Mode StopMode
}

func (L4Stop) Name() string { return "l4-stop" }

func (s L4Stop) Enter(sys System) {
	sys.SetSleepDeep(true)
	sys.SetStopMode(uint8(s.Mode))
	sys.WaitForInterrupt()
	sys.ReselectClock()
}

// L4Standby enters Standby on the L4/L5 families (ref man table 30).
type L4Standby struct{}

func (L4Standby) Name() string { return "l4-standby" }

func (L4Standby) Enter(sys System) {
	sys.SetSleepDeep(true)
	sys.SetStopMode(lpmsStandby)
	sys.ClearWakeupFlags()
	sys.WaitForInterrupt()
	sys.ReselectClock()
}

// L4Shutdown enters Shutdown on the L4/L5 families (ref man table 31), the
// lowest-power state available.
type L4Shutdown struct{}

func (L4Shutdown) Name() string { return "l4-shutdown" }

func (L4Shutdown) Enter(sys System) {
	sys.SetSleepDeep(true)
	sys.SetStopMode(lpmsShutdown)
	sys.ClearWakeupFlags()
	sys.WaitForInterrupt()
	sys.ReselectClock()
}

// LowPowerRun drops the regulator into low-power run (ref man table 24).
// The caller must already have reduced the system clock below 2 MHz.
func LowPowerRun(sys System) {
	sys.SetLowPowerRun(true)
}

// ReturnFromLowPowerRun leaves low-power run and waits for the main
// regulator. Raising the clock speed again is the caller's step.
func ReturnFromLowPowerRun(sys System) {
	sys.SetLowPowerRun(false)
	sys.WaitRegulatorReady()
}
