//go:build unix

package main

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket"
)

// Plan is a list of probes loaded from YAML.
type Plan struct {
	Probes []ProbeConfig `yaml:"probes"`
}

// ProbeConfig describes one batch of sockets to create and inspect.
type ProbeConfig struct {
	Name     string `yaml:"name"`
	Addr     string `yaml:"addr"`
	Type     string `yaml:"type"`
	Strategy string `yaml:"strategy"`
	Count    int    `yaml:"count"`
}

// probe is a validated ProbeConfig.
type probe struct {
	addr     socket.Address
	name     string
	count    int
	typ      socket.Type
	strategy socket.Strategy
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) ([]probe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "open plan "+path)
	}
	defer f.Close()

	return ReadPlan(f)
}

// ReadPlan decodes a plan from r and validates it.
func ReadPlan(r io.Reader) ([]probe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindIO, err, "read plan")
	}

	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode plan")
	}

	return plan.compile()
}

func (p Plan) compile() ([]probe, error) {
	if len(p.Probes) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "plan has no probes")
	}

	probes := make([]probe, 0, len(p.Probes))
	for i, pc := range p.Probes {
		pr, err := pc.compile(i)
		if err != nil {
			return nil, err
		}
		probes = append(probes, pr)
	}
	return probes, nil
}

func (pc ProbeConfig) compile(index int) (probe, error) {
	name := pc.Name
	if name == "" {
		name = "probe-" + strconv.Itoa(index+1)
	}

	if pc.Addr == "" {
		return probe{}, errors.InvalidInput(errors.PhaseConfig, "%s: addr is required", name)
	}
	addr, err := socket.ParseAddress(pc.Addr)
	if err != nil {
		return probe{}, configError(name, "addr", err)
	}

	typeName := pc.Type
	if typeName == "" {
		typeName = "stream"
	}
	typ, err := socket.ParseType(typeName)
	if err != nil {
		return probe{}, configError(name, "type", err)
	}

	strategy, err := socket.ParseStrategy(pc.Strategy)
	if err != nil {
		return probe{}, configError(name, "strategy", err)
	}

	count := pc.Count
	switch {
	case count == 0:
		count = 1
	case count < 0:
		return probe{}, errors.InvalidInput(errors.PhaseConfig, "%s: count must be >= 1, got %d", name, count)
	}

	return probe{
		name:     name,
		addr:     addr,
		typ:      typ,
		strategy: strategy,
		count:    count,
	}, nil
}

func configError(probe, field string, cause error) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Cause(cause).
		Detail("%s: invalid %s", probe, field).
		Build()
}
