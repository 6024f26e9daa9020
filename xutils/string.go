package xutils

import "unsafe"

// StringToBytes reinterprets s as a byte slice without copying. The result
// aliases the string's memory and must never be written to; Go strings are
// assumed immutable.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString reinterprets b as a string without copying. The caller must
// not modify b after the conversion.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
