// Package queue provides a growable FIFO ring buffer.
//
// Ring is not safe for concurrent use; callers serialize access. The
// trampoline scheduler keeps one per drain behind its own mutex.
package queue
