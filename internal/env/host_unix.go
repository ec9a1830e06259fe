//go:build unix

package env

import (
	"golang.org/x/sys/unix"
)

// hostKernel reports "<sysname> <release> <machine>" from uname(2).
func hostKernel() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Sysname[:]) + " " +
		unix.ByteSliceToString(u.Release[:]) + " " +
		unix.ByteSliceToString(u.Machine[:])
}
