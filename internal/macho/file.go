// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	"bytes"
	gomacho "debug/macho"
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// Load commands relevant for dependency resolution. Most of them are not
// decoded by [debug/macho], so they are read from the raw command bytes.
const (
	lcLoadDylib         uint32 = 0xc
	lcIDDylib           uint32 = 0xd
	lcLazyLoadDylib     uint32 = 0x20
	lcVersionMinMacOSX  uint32 = 0x24
	lcVersionMinIPhone  uint32 = 0x25
	lcVersionMinTVOS    uint32 = 0x2f
	lcVersionMinWatchOS uint32 = 0x30
	lcBuildVersion      uint32 = 0x32
	lcLoadWeakDylib     uint32 = 0x80000018
	lcRpath             uint32 = 0x8000001c
	lcReexportDylib     uint32 = 0x8000001f
	lcLoadUpwardDylib   uint32 = 0x80000023
)

// loadCmdHeaderSize is the size of the common cmd and cmdsize fields.
const loadCmdHeaderSize = 8

var _ Binary = (*File)(nil)

// File is a thin Mach-O file.
type File struct {
	slice       Slice
	id          string
	deps        []string
	rpaths      []string
	platform    Platform
	hasPlatform bool
}

// DependencyReferences implements [Binary].
func (f *File) DependencyReferences() []string {
	return f.deps
}

// SearchPaths implements [Binary].
func (f *File) SearchPaths() []string {
	return f.rpaths
}

// ID implements [Binary].
func (f *File) ID() string {
	return f.id
}

// Slices implements [Binary].
func (f *File) Slices() []Slice {
	return []Slice{f.slice}
}

// Platform implements [Binary].
func (f *File) Platform() (Platform, bool) {
	return f.platform, f.hasPlatform
}

// parseFile parses a thin Mach-O file. The given slice is completed with the
// CPU information read from the header.
func parseFile(data []byte, slice Slice) (*File, error) {
	machoFile, err := gomacho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	defer machoFile.Close()

	slice.CPU = machoFile.Cpu
	slice.SubCPU = machoFile.SubCpu
	slice.Size = uint64(len(data))

	file := &File{slice: slice}

	for _, load := range machoFile.Loads {
		err := file.addLoadCommand(load.Raw(), machoFile.ByteOrder)
		if err != nil {
			return nil, err
		}
	}

	return file, nil
}

func (f *File) addLoadCommand(raw []byte, order binary.ByteOrder) error {
	if len(raw) < loadCmdHeaderSize {
		return fmt.Errorf("%w: load command too short", ErrMalformed)
	}

	switch cmd := order.Uint32(raw); cmd {
	case lcLoadDylib, lcLoadWeakDylib, lcReexportDylib, lcLazyLoadDylib,
		lcLoadUpwardDylib:
		name, err := loadCmdString(raw, order)
		if err != nil {
			return err
		}

		f.deps = append(f.deps, name)
	case lcIDDylib:
		name, err := loadCmdString(raw, order)
		if err != nil {
			return err
		}

		f.id = name
	case lcRpath:
		path, err := loadCmdString(raw, order)
		if err != nil {
			return err
		}

		f.rpaths = append(f.rpaths, path)
	case lcBuildVersion:
		// LC_BUILD_VERSION takes precedence over the legacy commands.
		platform, err := loadCmdUint32(raw, order)
		if err != nil {
			return err
		}

		f.platform = Platform(platform)
		f.hasPlatform = true
	case lcVersionMinMacOSX, lcVersionMinIPhone, lcVersionMinTVOS,
		lcVersionMinWatchOS:
		if !f.hasPlatform {
			f.platform = versionMinPlatform(cmd)
			f.hasPlatform = true
		}
	}

	return nil
}

func versionMinPlatform(cmd uint32) Platform {
	switch cmd {
	case lcVersionMinIPhone:
		return PlatformIOS
	case lcVersionMinTVOS:
		return PlatformTVOS
	case lcVersionMinWatchOS:
		return PlatformWatchOS
	default:
		return PlatformMacOS
	}
}

// loadCmdUint32 returns the first field after the load command header.
func loadCmdUint32(raw []byte, order binary.ByteOrder) (uint32, error) {
	if len(raw) < loadCmdHeaderSize+4 {
		return 0, fmt.Errorf("%w: load command too short", ErrMalformed)
	}

	return order.Uint32(raw[loadCmdHeaderSize:]), nil
}

// loadCmdString returns the string a load command references by its first
// field, which is the offset of the string relative to the command start.
func loadCmdString(raw []byte, order binary.ByteOrder) (string, error) {
	offset, err := loadCmdUint32(raw, order)
	if err != nil {
		return "", err
	}

	if offset < loadCmdHeaderSize || uint64(offset) >= uint64(len(raw)) {
		return "", fmt.Errorf(
			"%w: string offset %d out of range", ErrMalformed, offset)
	}

	return unix.ByteSliceToString(raw[offset:]), nil
}
