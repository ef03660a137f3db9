//go:build unix

package socket

import "unsafe"

// RawView is the (pointer, socklen) pair taken by address-taking syscalls.
// It borrows the Address it was derived from.
type RawView struct {
	Ptr unsafe.Pointer
	Len uint32
}

// View returns the kernel sockaddr stored in addr. Len is the size of the
// family's sockaddr struct, not of the Address value. The view is valid for
// as long as addr is.
func View(addr Address) RawView {
	ptr, n := addr.sockaddr()
	return RawView{Ptr: ptr, Len: n}
}

// Bytes returns the sockaddr bytes. The slice aliases the Address.
func (v RawView) Bytes() []byte {
	if v.Ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(v.Ptr), v.Len)
}
