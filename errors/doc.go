// Package errors provides the error taxonomy shared by every rxkit package.
//
// Errors are structured AppError values carrying a machine-readable code.
// Three families matter to stream code:
//
//   - Stream-domain failures (TRANSFORM_FAILED, UPSTREAM_FAILED) travel as
//     Error events and terminate the subscription that produced them.
//   - Contract violations (CONTRACT_VIOLATION) signal a broken invariant,
//     such as assigning a set-once disposable twice. They are raised with
//     panic and must not be recovered into a stream.
//   - Protocol violations (PROTOCOL_VIOLATION) are reported through the
//     logger and never abort.
//
// AppError implements Is by code, so errors.Is works against the
// sentinel values exported here even after wrapping.
package errors
