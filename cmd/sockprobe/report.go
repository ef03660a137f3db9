//go:build unix

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/netsock/socket"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	probeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// reporter writes probe results, styled when color is set.
type reporter struct {
	w     io.Writer
	color bool
}

func (rp reporter) style(s lipgloss.Style, text string) string {
	if !rp.color {
		return text
	}
	return s.Render(text)
}

func (rp reporter) header(strategy socket.Strategy) {
	fmt.Fprintf(rp.w, "%s platform strategy: %s\n\n",
		rp.style(titleStyle, "sockprobe"),
		rp.style(valueStyle, strategy.String()))
}

func (rp reporter) write(results [][]result) {
	for _, rs := range results {
		for _, r := range rs {
			fmt.Fprintln(rp.w, rp.line(r))
		}
	}
}

func (rp reporter) line(r result) string {
	var b strings.Builder
	b.WriteString(rp.style(probeStyle, r.probe))
	b.WriteString(" ")

	if r.fd.Valid() {
		fmt.Fprintf(&b, "fd=%s family=%s type=%s nonblock=%s cloexec=%s view=%s",
			rp.style(valueStyle, fmt.Sprint(r.fd.Int())),
			rp.style(valueStyle, socket.FamilyName(r.family)),
			rp.style(valueStyle, r.typ.String()),
			rp.flag(r.nonBlocking),
			rp.flag(r.closeOnExec),
			rp.style(valueStyle, fmt.Sprint(r.viewLen)))
	}

	if r.err != nil {
		if r.fd.Valid() {
			b.WriteString(" ")
		}
		b.WriteString(rp.style(errorStyle, "FAIL: "+r.err.Error()))
	} else {
		b.WriteString(" ")
		b.WriteString(rp.style(okStyle, "ok"))
	}
	return b.String()
}

func (rp reporter) flag(v bool) string {
	if v {
		return rp.style(okStyle, "true")
	}
	return rp.style(errorStyle, "false")
}

func (rp reporter) summary(total, failed int) {
	fmt.Fprintln(rp.w)
	msg := fmt.Sprintf("%d descriptors, %d failed", total, failed)
	if failed > 0 {
		fmt.Fprintln(rp.w, rp.style(errorStyle, msg))
		return
	}
	fmt.Fprintln(rp.w, rp.style(helpStyle, msg))
}
