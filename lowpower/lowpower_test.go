package lowpower

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder logs every System call in order, so each strategy's fixed write
// sequence can be pinned exactly.
type recorder struct {
	ops []string
}

func (r *recorder) log(format string, args ...interface{}) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) SetSleepDeep(on bool)         { r.log("sleepdeep=%v", on) }
func (r *recorder) SetSleepOnExit(on bool)       { r.log("sleeponexit=%v", on) }
func (r *recorder) SetStopMode(bits uint8)       { r.log("lpms=%03b", bits) }
func (r *recorder) SetStandby(on bool)           { r.log("pdds=%v", on) }
func (r *recorder) SetRegulatorLowPower(on bool) { r.log("lpds=%v", on) }
func (r *recorder) SetLowPowerRun(on bool)       { r.log("lpr=%v", on) }
func (r *recorder) WaitRegulatorReady()          { r.log("wait-reglpf") }
func (r *recorder) ClearWakeupFlags()            { r.log("clear-wuf") }
func (r *recorder) WaitForInterrupt()            { r.log("wfi") }
func (r *recorder) ReselectClock()               { r.log("reselect-clock") }

func TestSequences_EmitDocumentedOrder(t *testing.T) {
	cases := []struct {
		seq  Sequence
		want []string
	}{
		{SleepNow{}, []string{"sleepdeep=false", "sleeponexit=false", "wfi"}},
		{SleepOnExit{}, []string{"sleepdeep=false", "sleeponexit=true", "wfi"}},
		{F3Stop{}, []string{"sleepdeep=true", "pdds=false", "lpds=true", "wfi", "reselect-clock"}},
		{F3Standby{}, []string{"sleepdeep=true", "pdds=true", "clear-wuf", "wfi", "reselect-clock"}},
		{L4Stop{Mode: Stop0}, []string{"sleepdeep=true", "lpms=000", "wfi", "reselect-clock"}},
		{L4Stop{Mode: Stop2}, []string{"sleepdeep=true", "lpms=010", "wfi", "reselect-clock"}},
		{L4Standby{}, []string{"sleepdeep=true", "lpms=011", "clear-wuf", "wfi", "reselect-clock"}},
		{L4Shutdown{}, []string{"sleepdeep=true", "lpms=100", "clear-wuf", "wfi", "reselect-clock"}},
	}
	for _, c := range cases {
		r := &recorder{}
		c.seq.Enter(r)
		require.Equal(t, c.want, r.ops, c.seq.Name())
	}
}

func TestLowPowerRun_RoundTrip(t *testing.T) {
	r := &recorder{}
	LowPowerRun(r)
	ReturnFromLowPowerRun(r)
	require.Equal(t, []string{"lpr=true", "lpr=false", "wait-reglpf"}, r.ops)
}
