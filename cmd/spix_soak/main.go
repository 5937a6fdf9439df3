// Soak runner: repeats randomized transfers against the simulated peripheral
// according to a YAML scenario, checking word-for-word correspondence on
// every pass. Useful for long-running shakeouts of the pipeline discipline.
package main

import (
	"flag"
	"math/rand"
	"os"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/jangala-dev/tinygo-spix/spix"
)

type scenario struct {
	Iterations int    `yaml:"iterations"`
	Seed       int64  `yaml:"seed"`
	Transform  string `yaml:"transform"` // "invert" or "identity"
	Cases      []struct {
		Name   string `yaml:"name"`
		Length int    `yaml:"length"`
		Write  bool   `yaml:"write"` // write-only instead of full duplex
	} `yaml:"cases"`
}

// defaultScenario covers lengths below, at, and above the FIFO depth.
const defaultScenario = `
iterations: 200
seed: 1
transform: invert
cases:
  - {name: short, length: 3}
  - {name: exact, length: 4}
  - {name: long, length: 37}
  - {name: bulk, length: 256}
  - {name: write-only, length: 64, write: true}
`

var scenarioPath = flag.String("scenario", "", "YAML scenario file (empty: built-in default)")

func load() (*scenario, error) {
	raw := []byte(defaultScenario)
	if *scenarioPath != "" {
		b, err := os.ReadFile(*scenarioPath)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	var sc scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func main() {
	flag.Parse()
	defer glog.Flush()

	sc, err := load()
	if err != nil {
		glog.Fatalf("scenario: %v", err)
	}

	transform := func(b byte) byte { return b }
	if sc.Transform == "invert" {
		transform = func(b byte) byte { return ^b }
	}

	rng := rand.New(rand.NewSource(sc.Seed))
	passes, mismatches := 0, 0

	for iter := 0; iter < sc.Iterations; iter++ {
		for _, c := range sc.Cases {
			sim := spix.NewSim()
			sim.Transform = transform
			spi := spix.New(sim, spix.Config{})

			data := make([]byte, c.Length)
			rng.Read(data)
			buf := append([]byte(nil), data...)

			if c.Write {
				err = spi.Write(buf)
			} else {
				err = spi.Transfer(buf)
			}
			if err != nil {
				glog.Fatalf("%s iter %d: %v", c.Name, iter, err)
			}

			ok := true
			for i := range data {
				if sim.Sent()[i] != data[i] {
					ok = false
				}
				if !c.Write && buf[i] != transform(data[i]) {
					ok = false
				}
			}
			if sim.MaxPending() > spix.FIFODepth || sim.Pending() != 0 {
				ok = false
			}
			if ok {
				passes++
			} else {
				mismatches++
				glog.Errorf("%s iter %d: word correspondence broken", c.Name, iter)
			}
		}
	}

	glog.Infof("soak: %d passes, %d mismatches", passes, mismatches)
	if mismatches > 0 {
		glog.Flush()
		os.Exit(1)
	}
}
