//go:build !((linux || darwin) && (amd64 || arm64))

package codebuf

import (
	"fmt"
	"runtime"
)

const CanInvoke = false

func invoke(entry uintptr) (uintptr, error) {
	return 0, fmt.Errorf("%w: %s/%s", ErrUnsupported, runtime.GOOS, runtime.GOARCH)
}
