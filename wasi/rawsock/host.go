//go:build unix

package rawsock

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/netsock/resource"
	"github.com/wippyai/netsock/socket"
)

// ModuleName is the import module name guests link against.
const ModuleName = "wippy:rawsock/factory@0.1.0"

const (
	AddressFamilyIPv4 uint32 = 0
	AddressFamilyIPv6 uint32 = 1
)

const (
	SocketTypeStream   uint32 = 0
	SocketTypeDatagram uint32 = 1
)

// Host implements the rawsock host functions.
type Host struct {
	table    *resource.Table
	strategy socket.Strategy
}

// New creates a host with its own descriptor table.
func New() *Host {
	return &Host{
		table:    resource.NewTable(),
		strategy: socket.StrategyAuto,
	}
}

// WithStrategy selects how guest sockets are created.
func (h *Host) WithStrategy(s socket.Strategy) *Host {
	h.strategy = s
	return h
}

// Namespace returns the host module name
func (h *Host) Namespace() string {
	return ModuleName
}

// Table returns the table owning guest descriptors.
func (h *Host) Table() *resource.Table {
	return h.table
}

// Instantiate registers the host module in r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	return r.NewHostModuleBuilder(ModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.newSocketFunc), []api.ValueType{i32, i32}, []api.ValueType{i32, i32}).
		Export("new-socket").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.isNonBlockingFunc), []api.ValueType{i32}, []api.ValueType{i32, i32}).
		Export("is-non-blocking").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.dropFunc), []api.ValueType{i32}, []api.ValueType{i32}).
		Export("drop").
		Instantiate(ctx)
}

// Close closes every descriptor the guest still holds.
func (h *Host) Close() error {
	return h.table.Close()
}

// new-socket
func (h *Host) NewSocket(_ context.Context, family, typ uint32) (resource.Handle, ErrorCode) {
	var addr socket.Address
	switch family {
	case AddressFamilyIPv4:
		addr = socket.NewInet4([4]byte{}, 0)
	case AddressFamilyIPv6:
		addr = socket.NewInet6([16]byte{}, 0, 0)
	default:
		return 0, ErrorCodeInvalidArgument
	}

	var sockType socket.Type
	switch typ {
	case SocketTypeStream:
		sockType = socket.Stream
	case SocketTypeDatagram:
		sockType = socket.Datagram
	default:
		return 0, ErrorCodeInvalidArgument
	}

	handle, fd, err := h.table.OpenWith(h.strategy, addr, sockType)
	if err != nil {
		return 0, mapError(err)
	}

	Logger().Debug("guest socket created",
		zap.Uint32("handle", uint32(handle)),
		zap.Stringer("fd", fd))
	return handle, ErrorCodeOK
}

// is-non-blocking
func (h *Host) IsNonBlocking(_ context.Context, handle uint32) (bool, ErrorCode) {
	var nonBlocking bool
	err := h.table.With(resource.Handle(handle), func(fd socket.FD) error {
		var err error
		nonBlocking, err = socket.IsNonBlocking(fd)
		return err
	})
	if err != nil {
		return false, mapError(err)
	}
	return nonBlocking, ErrorCodeOK
}

// drop
func (h *Host) Drop(_ context.Context, handle uint32) ErrorCode {
	return mapError(h.table.Drop(resource.Handle(handle)))
}

func (h *Host) newSocketFunc(ctx context.Context, _ api.Module, stack []uint64) {
	handle, code := h.NewSocket(ctx, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	stack[0] = api.EncodeU32(uint32(handle))
	stack[1] = api.EncodeU32(uint32(code))
}

func (h *Host) isNonBlockingFunc(ctx context.Context, _ api.Module, stack []uint64) {
	nonBlocking, code := h.IsNonBlocking(ctx, api.DecodeU32(stack[0]))
	var flag uint32
	if nonBlocking {
		flag = 1
	}
	stack[0] = api.EncodeU32(flag)
	stack[1] = api.EncodeU32(uint32(code))
}

func (h *Host) dropFunc(ctx context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(h.Drop(ctx, api.DecodeU32(stack[0]))))
}
