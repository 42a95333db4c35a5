package modes

import "fmt"

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// SelfCheck reports whether results should be cross-checked after each
// stage.
func (m Mode) SelfCheck() bool {
	return m == ModeDevelopment
}
