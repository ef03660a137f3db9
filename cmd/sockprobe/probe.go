//go:build unix

package main

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/wippyai/netsock/resource"
	"github.com/wippyai/netsock/socket"
)

// result is the outcome of creating and inspecting one descriptor.
type result struct {
	err         error
	probe       string
	handle      resource.Handle
	fd          socket.FD
	family      int
	typ         socket.Type
	viewLen     uint32
	nonBlocking bool
	closeOnExec bool
}

func (r result) ok() bool {
	return r.err == nil
}

// runProbes executes every probe with at most workers running at once.
// Created descriptors are owned by table. Results keep plan order.
func runProbes(table *resource.Table, probes []probe, workers int) [][]result {
	if workers < 1 {
		workers = 1
	}

	results := make([][]result, len(probes))
	p := pool.New().WithMaxGoroutines(workers)
	for i := range probes {
		idx := i
		p.Go(func() {
			results[idx] = runProbe(table, probes[idx])
		})
	}
	p.Wait()

	return results
}

func runProbe(table *resource.Table, pr probe) []result {
	out := make([]result, 0, pr.count)
	viewLen := socket.View(pr.addr).Len

	for i := 0; i < pr.count; i++ {
		r := result{probe: pr.name, fd: socket.InvalidFD, viewLen: viewLen}

		handle, fd, err := table.OpenWith(pr.strategy, pr.addr, pr.typ)
		if err != nil {
			r.err = err
			out = append(out, r)
			continue
		}
		r.handle, r.fd = handle, fd
		r.err = inspect(&r, pr)
		out = append(out, r)
	}
	return out
}

func inspect(r *result, pr probe) error {
	var err error
	if r.nonBlocking, err = socket.IsNonBlocking(r.fd); err != nil {
		return err
	}
	if r.closeOnExec, err = socket.IsCloseOnExec(r.fd); err != nil {
		return err
	}
	if r.family, err = socket.Family(r.fd); err != nil {
		return err
	}
	if r.typ, err = socket.SocketType(r.fd); err != nil {
		return err
	}

	switch {
	case !r.nonBlocking:
		return fmt.Errorf("%v is blocking", r.fd)
	case !r.closeOnExec:
		return fmt.Errorf("%v is not close-on-exec", r.fd)
	case r.family != pr.addr.Family():
		return fmt.Errorf("%v has family %s, want %s", r.fd,
			socket.FamilyName(r.family), socket.FamilyName(pr.addr.Family()))
	case r.typ != pr.typ:
		return fmt.Errorf("%v has type %s, want %s", r.fd, r.typ, pr.typ)
	}
	return nil
}

func countFailures(results [][]result) int {
	n := 0
	for _, rs := range results {
		for _, r := range rs {
			if !r.ok() {
				n++
			}
		}
	}
	return n
}
