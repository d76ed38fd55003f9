// Package disposable provides the resource-release handles shared by the
// scheduler and the stream operators.
//
// Every Disposable is idempotent: Dispose may be called any number of
// times, from any goroutine, and the wrapped side effect runs at most once.
//
// # Set-once holders
//
// SingleAssignment and SinkDisposer are created before the resource they
// guard exists. Their child is assigned exactly once; disposing the holder
// first makes the later assignment dispose the child immediately. A second
// assignment is a programming error and panics with a CONTRACT_VIOLATION
// *errors.AppError.
//
//	sad := disposable.NewSingleAssignment()
//	go sad.Dispose()
//	sad.Set(subscribe()) // disposed at once if Dispose already ran
package disposable
