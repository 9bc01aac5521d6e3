//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	return withEchoDisabled(stdin, func() (func(), error) {
		return nil, errors.New("no-echo input is not supported on this platform")
	})
}
