// Package convert maps Go property values to graph-storable values and back.
//
// A Registry holds named converter factories. ConverterFor picks the
// converter for a member: an explicitly named one first, then a built-in
// converter for the declared type (time.Time, []byte, uuid.UUID, enum-like
// types, and pointers or collections of those), then the identity converter
// for natively storable types.
package convert
