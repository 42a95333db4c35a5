//go:build (linux || darwin) && (amd64 || arm64)

package codebuf

import "github.com/ebitengine/purego"

// CanInvoke reports whether this build can call generated code.
const CanInvoke = true

func invoke(entry uintptr) (uintptr, error) {
	ret, _, _ := purego.SyscallN(entry)
	return ret, nil
}
