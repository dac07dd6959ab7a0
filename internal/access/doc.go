// Package access holds the strategies that read and write one member of a
// domain value: direct field access and getter/setter invocation.
//
// Accessors are created by the resolver, cached, and never mutated. They
// are safe for concurrent use as long as callers do not share instances.
package access
