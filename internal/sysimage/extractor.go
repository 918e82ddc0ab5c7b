// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// runExtractor runs the external shared cache extractor tool that extracts
// source into dir. Its output is written to the debug log line by line.
func runExtractor(ctx context.Context, tool, source, dir string) error {
	cmd := exec.CommandContext(ctx, tool, source, dir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	slog.Debug("Running extractor", slog.String("command", cmd.String()))

	err = cmd.Start()
	if err != nil {
		return &ExtractorError{Tool: tool, Err: err}
	}

	var (
		group     errgroup.Group
		lastError string
	)

	group.Go(func() error {
		return processOutput(stdout, "stdout", nil)
	})

	group.Go(func() error {
		return processOutput(stderr, "stderr", func(line string) {
			lastError = line
		})
	})

	// All reads from the pipes must be done before waiting for the command.
	outputErr := group.Wait()

	err = cmd.Wait()
	if err != nil {
		return &ExtractorError{Tool: tool, Err: err, Stderr: lastError}
	}

	if outputErr != nil {
		return &ExtractorError{Tool: tool, Err: outputErr}
	}

	return nil
}

// processOutput logs each line read from output. If fn is not nil, it is
// called with each line as well.
func processOutput(output io.Reader, stream string, fn func(string)) error {
	scanner := bufio.NewScanner(output)

	for scanner.Scan() {
		line := scanner.Text()

		slog.Debug("Extractor output",
			slog.String("stream", stream),
			slog.String("line", line))

		if fn != nil {
			fn(line)
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read %s: %w", stream, err)
	}

	return nil
}
