// Package iox holds small close and flush helpers shared by the archive
// writer, the CLI and tests.
package iox

import (
	"fmt"
	"io"
)

// DiscardClose closes c and drops the error. For read-only handles where
// a close failure changes nothing:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseInto closes c and, if *errp is still nil, stores the close error
// there prefixed with what. For writers, where a failed close can mean
// lost data:
//
//	defer iox.CloseInto(&err, f, "close archive")
func CloseInto(errp *error, c io.Closer, what string) {
	if cerr := c.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("%s: %w", what, cerr)
	}
}

// DiscardErr calls fn and drops the error, e.g. a logger Sync on exit.
func DiscardErr(fn func() error) { _ = fn() }
