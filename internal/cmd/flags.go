// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/aibor/dyldtree/internal/dyld"
	"github.com/aibor/dyldtree/internal/sys"
)

const (
	name = "dyldtree"

	usageMessage = `Usage of 'dyldtree':
    dyldtree [flags...] binary

Prints the dependency tree of a Mach-O executable or dynamic library.

Using it directly:
	dyldtree -depth=2 ./MyApp.app/Contents/MacOS/MyApp

Including system libraries from an extracted shared cache:
	dyldtree -includeSystemDependencies -sharedCachePath=/tmp/libraries ./MyApp

All dyldtree flags can also be provided via environment variable DYLDTREE_ARGS:
	DYLDTREE_ARGS="-excludeAllDuplicates -verbose" dyldtree ./MyApp

All dyldtree flags can also be provided via file ./.dyldtree-args, with one
argument per line.
`
)

type flags struct {
	BinaryPath                string
	Depth                     int
	IgnorePrefixes            []string
	ExcludeAllDuplicates      bool
	IncludeSystemDependencies bool
	SharedCachePath           string
	Verbose                   bool
	Version                   bool
}

func (f *flags) walkerConfig() dyld.Config {
	return dyld.Config{
		MaxDepth:                  f.Depth,
		IgnorePrefixes:            f.IgnorePrefixes,
		IncludeSystemDependencies: f.IncludeSystemDependencies,
		ExcludeAllDuplicates:      f.ExcludeAllDuplicates,
	}
}

func newFlagSet(cfg *flags, output io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.Var(
		&depthValue{&cfg.Depth},
		"depth",
		"maximum depth of the tree, the binary itself has depth 0. "+
			"Either a number or \""+unlimited+"\"",
	)

	flagSet.Var(
		(*stringListValue)(&cfg.IgnorePrefixes),
		"ignorePrefix",
		"dependencies starting with this prefix are not shown. Flag may be "+
			"used more than once. Empty value clears the list.",
	)

	flagSet.BoolVar(
		&cfg.ExcludeAllDuplicates,
		"excludeAllDuplicates",
		cfg.ExcludeAllDuplicates,
		"do not show dependencies already shown in the same branch",
	)

	flagSet.BoolVar(
		&cfg.IncludeSystemDependencies,
		"includeSystemDependencies",
		cfg.IncludeSystemDependencies,
		"resolve libraries shipped with the system, like the ones in "+
			"/usr/lib and /System",
	)

	flagSet.Var(
		(*sys.FilePath)(&cfg.SharedCachePath),
		"sharedCachePath",
		"system image used with -includeSystemDependencies: an extracted "+
			"directory, a cpio archive or a dyld shared cache (default is the "+
			"host's dyld shared cache)",
	)

	flagSet.BoolVar(
		&cfg.Verbose,
		"verbose",
		cfg.Verbose,
		"enable debug output on stderr",
	)

	flagSet.BoolVar(
		&cfg.Version,
		"version",
		cfg.Version,
		"show version and exit",
	)

	return flagSet
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	cfg := &flags{
		Depth: dyld.UnlimitedDepth,
	}

	flagSet := newFlagSet(cfg, output)

	// The flag set prints errors and usage itself.
	err := flagSet.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}

		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	if cfg.Version {
		return cfg, nil
	}

	positionalArgs := flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return nil, fail(flagSet, "no binary given", nil)
	case 1:
		cfg.BinaryPath = positionalArgs[0]
	default:
		return nil, fail(flagSet, "only one binary may be given", nil)
	}

	if cfg.BinaryPath == "" {
		return nil, fail(flagSet, "binary path", sys.ErrEmptyPath)
	}

	return cfg, nil
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
