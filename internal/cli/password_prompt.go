package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errStdinUnavailable = errors.New("stdin unavailable")

// readPassword reads one line from a terminal without echo. Tests replace it.
var readPassword = readPasswordNoEcho

// withEchoDisabled runs disable, reads one line and restores the terminal.
func withEchoDisabled(stdin *os.File, disable func() (restore func(), err error)) ([]byte, error) {
	if stdin == nil {
		return nil, errStdinUnavailable
	}
	restore, err := disable()
	if err != nil {
		return nil, err
	}
	defer restore()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
