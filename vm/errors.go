package vm

import "github.com/samber/oops"

// Error codes for the VM-runtime taxonomy spec §7 names: a user error
// fired by the `error()`/`throw` built-in, and an internal trap
// (unreachable / advice-tape underrun / arithmetic trap) distinguished
// by the VM abort flag.
const (
	ErrUserAbort   = "VM_USER_ERROR"
	ErrTrap        = "VM_TRAP"
	ErrOutOfMemory = "VM_OUT_OF_MEMORY"
)

// UserError wraps the developer-supplied message from error()/throw
// verbatim (spec §7 "user errors include the developer-supplied message
// verbatim").
func UserError(msg string) error {
	return oops.Code(ErrUserAbort).Errorf("%s", msg)
}

// Trap wraps an internal VM abort reason (spec §7 "traps include the
// VM's internal reason string").
func Trap(reason string) error {
	return oops.Code(ErrTrap).Errorf("%s", reason)
}
