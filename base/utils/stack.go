package utils

import (
	"bytes"
	"runtime"
)

// Stack returns the stack trace of the calling goroutine without its first
// `skip` frames. The goroutine header line is kept.
func Stack(skip int) []byte {
	buf := make([]byte, 8192)
	buf = buf[:runtime.Stack(buf, false)]

	header := bytes.IndexByte(buf, '\n')
	if header < 0 {
		return buf
	}

	// each frame is two lines: function and file:line
	rest := buf[header+1:]
	for i := 0; i < 2*skip; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return buf
		}
		rest = rest[idx+1:]
	}
	return append(append([]byte{}, buf[:header+1]...), rest...)
}
