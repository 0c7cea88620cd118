// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: diag.go — cold-path assertion and logging helpers (zero-alloc)
//
// Purpose:
//   - Reports programmer-error contract violations (update/remove of an
//     unknown order id, a FIFO-only query against an aggregate book) via
//     panic.
//   - Writes cold-path diagnostics without fmt.Sprintf.
//
// Notes:
//   - Never invoked from Insert/Update/Remove/the query paths themselves —
//     only from their precondition checks, which only fire on misuse.
// ─────────────────────────────────────────────────────────────────────────────

package diag

import "os"

// Assert panics with msg if cond is false.
//
//go:nosplit
//go:inline
func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// Warn writes a cold-path notice directly to stderr, concatenating
// strings instead of going through fmt.
//
//go:nosplit
//go:inline
func Warn(prefix, message string) {
	os.Stderr.WriteString(prefix + ": " + message + "\n")
}
