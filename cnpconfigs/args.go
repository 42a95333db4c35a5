package cnpconfigs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reusee/cnp/locals"
)

// LocalName is a command line or config key naming one local slot.
type LocalName byte

func (n *LocalName) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w: %q", locals.ErrBadName, text)
	}
	if _, err := locals.Offset(text[0]); err != nil {
		return err
	}
	*n = LocalName(text[0])
	return nil
}

func (n LocalName) String() string {
	return string(rune(n))
}

var ErrBadSize = errors.New("bad size")

// ByteSize is a region size given as a plain or base-prefixed integer,
// optionally with a k or m suffix.
type ByteSize int

func (s *ByteSize) UnmarshalText(text []byte) error {
	str := strings.ToLower(string(text))
	unit := 1
	switch {
	case strings.HasSuffix(str, "k"):
		unit = 1 << 10
		str = str[:len(str)-1]
	case strings.HasSuffix(str, "m"):
		unit = 1 << 20
		str = str[:len(str)-1]
	}
	n, err := strconv.ParseInt(str, 0, 32)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrBadSize, text, err)
	}
	if n <= 0 {
		return fmt.Errorf("%w: %q is not positive", ErrBadSize, text)
	}
	*s = ByteSize(int(n) * unit)
	return nil
}
