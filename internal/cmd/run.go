// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/aibor/dyldtree/internal/dyld"
	"github.com/aibor/dyldtree/internal/macho"
	"github.com/aibor/dyldtree/internal/sysimage"
)

const localConfigFile = ".dyldtree-args"

// IO provides input and output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

// environment is what the command operates on besides its flags.
type environment struct {
	// fsys is the file system binaries are looked up in. It is rooted at "/".
	fsys fs.FS
	// image describes the system image. Its path is set from the flags.
	image sysimage.Spec
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func run(
	ctx context.Context,
	flags *flags,
	env environment,
	stdout io.Writer,
) error {
	loader, err := dyld.NewFSLoader(env.fsys, dyld.DefaultCacheSize)
	if err != nil {
		return err //nolint:wrapcheck
	}

	config := flags.walkerConfig()

	if flags.IncludeSystemDependencies {
		if flags.SharedCachePath == "" {
			err := checkPlatform(loader, flags.BinaryPath)
			if err != nil {
				return err
			}
		}

		image := env.image
		image.Path = flags.SharedCachePath

		config.SystemRoot, err = sysimage.Extract(ctx, image)
		if err != nil {
			return fmt.Errorf("system image: %w", err)
		}

		slog.Debug("Using system image", slog.String("path", config.SystemRoot))
	} else if flags.SharedCachePath != "" {
		slog.Warn("-sharedCachePath has no effect without -includeSystemDependencies")
	}

	walker := dyld.NewWalker(config, loader, env.fsys, dyld.NewReporter(stdout))

	return walker.Walk(flags.BinaryPath) //nolint:wrapcheck
}

// checkPlatform warns if the binary is not built for macOS. The host's shared
// cache does not contain the libraries of other platforms.
func checkPlatform(loader dyld.Loader, path string) error {
	binary, err := loader.Load(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	platform, ok := binary.Platform()
	if ok && platform != macho.PlatformMacOS {
		slog.Warn("binary is not built for macOS but -sharedCachePath is not "+
			"specified, so system dependencies may be invalid",
			slog.String("platform", platform.String()))
	}

	return nil
}

func handleRunError(err error, stdErr io.Writer) int {
	if err == nil {
		return 0
	}

	// [ErrHelp] is returned when help or version is requested. So exit
	// without error in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// The reader of the output is gone. Nothing left to do.
	if isBrokenPipe(err) {
		slog.Debug("Output closed", slog.Any("error", err))
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		fmt.Fprintf(stdErr, "Error [%s]: %v\n", name, err)
	}

	return -1
}

func printVersion(output io.Writer) error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(output, "Version: %s\n", buildInfo.Main.Version)

	return nil
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	ignoreSIGPIPE()

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	setupLogging(cfg.Stderr, flags.Verbose)

	if flags.Version {
		return handleRunError(printVersion(cfg.Stdout), cfg.Stderr)
	}

	env := environment{
		fsys: os.DirFS("/"),
	}

	err = run(ctx, flags, env, cfg.Stdout)

	return handleRunError(err, cfg.Stderr)
}
