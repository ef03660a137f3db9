//go:build unix

package main

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket"
)

func TestReadPlan(t *testing.T) {
	src := `
probes:
  - name: loopback-tcp
    addr: 127.0.0.1:0
    type: stream
    count: 8
    strategy: twostep
  - addr: "[::1]:53"
    type: udp
`
	probes, err := ReadPlan(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPlan: %v", err)
	}
	if len(probes) != 2 {
		t.Fatalf("expected 2 probes, got %d", len(probes))
	}

	first := probes[0]
	if first.name != "loopback-tcp" {
		t.Errorf("name = %q", first.name)
	}
	if first.addr.Family() != unix.AF_INET {
		t.Errorf("family = %s", socket.FamilyName(first.addr.Family()))
	}
	if first.typ != socket.Stream || first.count != 8 || first.strategy != socket.StrategyTwoStep {
		t.Errorf("unexpected probe %+v", first)
	}

	second := probes[1]
	if second.name != "probe-2" {
		t.Errorf("default name = %q, want probe-2", second.name)
	}
	if second.addr.Family() != unix.AF_INET6 {
		t.Errorf("family = %s", socket.FamilyName(second.addr.Family()))
	}
	if second.typ != socket.Datagram {
		t.Errorf("type = %s", second.typ)
	}
	if second.count != 1 {
		t.Errorf("default count = %d, want 1", second.count)
	}
	if second.strategy != socket.StrategyAuto {
		t.Errorf("default strategy = %s", second.strategy)
	}
}

func TestReadPlan_DefaultType(t *testing.T) {
	probes, err := ReadPlan(strings.NewReader("probes:\n  - addr: 10.0.0.1:80\n"))
	if err != nil {
		t.Fatalf("ReadPlan: %v", err)
	}
	if probes[0].typ != socket.Stream {
		t.Errorf("default type = %s, want stream", probes[0].typ)
	}
}

func TestReadPlan_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no probes", "probes: []\n"},
		{"missing addr", "probes:\n  - type: stream\n"},
		{"bad addr", "probes:\n  - addr: localhost:80\n"},
		{"bad type", "probes:\n  - addr: 127.0.0.1:0\n    type: packet\n"},
		{"bad strategy", "probes:\n  - addr: 127.0.0.1:0\n    strategy: fast\n"},
		{"negative count", "probes:\n  - addr: 127.0.0.1:0\n    count: -2\n"},
		{"unknown field", "probes:\n  - addr: 127.0.0.1:0\n    port: 80\n"},
		{"not yaml", "probes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPlan(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Phase != errors.PhaseConfig || e.Kind != errors.KindInvalidInput {
				t.Errorf("got [%s] %s, want [config] invalid_input", e.Phase, e.Kind)
			}
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("probes:\n  - addr: 127.0.0.1:0\n    count: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	probes, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if probes[0].count != 3 {
		t.Errorf("count = %d, want 3", probes[0].count)
	}

	if _, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProbesFromFlags(t *testing.T) {
	probes, err := probesFrom(options{addr: "127.0.0.1:0", typ: "dgram", strategy: "auto", count: 2})
	if err != nil {
		t.Fatalf("probesFrom: %v", err)
	}
	if len(probes) != 1 || probes[0].count != 2 || probes[0].typ != socket.Datagram {
		t.Errorf("unexpected probes %+v", probes)
	}
}
