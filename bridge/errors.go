package bridge

import "fmt"

// FrameTooLargeError reports a native messaging frame exceeding the
// configured cap. The connection cannot be resynchronized after an
// oversized frame, so the host stops instead of skipping it.
type FrameTooLargeError struct {
	Size int
	Max  int
}

func (e *FrameTooLargeError) Error() string {
	return fmt.Sprintf("bridge: frame of %d bytes exceeds %d byte limit", e.Size, e.Max)
}
