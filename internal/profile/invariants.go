//go:build !netkindebug

package profile

const checkInvariants = false
