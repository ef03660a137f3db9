// Package rawsock exposes socket creation to WebAssembly guests as a wazero
// host module.
//
// Implements the wippy:rawsock/factory@0.1.0 interface:
//   - new-socket(family u32, type u32) -> (handle u32, code u32)
//   - is-non-blocking(handle u32) -> (flag u32, code u32)
//   - drop(handle u32) -> code u32
//
// Descriptors created for a guest are owned by the Host's resource table and
// closed by Host.Close.
package rawsock
