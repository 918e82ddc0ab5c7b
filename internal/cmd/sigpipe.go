// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"os/signal"

	"golang.org/x/sys/unix"
)

// ignoreSIGPIPE makes writes to a closed stdout return EPIPE instead of
// terminating the process, so the output can be piped into commands like
// head that exit early.
func ignoreSIGPIPE() {
	signal.Ignore(unix.SIGPIPE)
}

// isBrokenPipe reports whether the error is caused by the reader of the
// output having gone away.
func isBrokenPipe(err error) bool {
	return errors.Is(err, unix.EPIPE)
}
