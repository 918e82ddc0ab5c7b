// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	"bytes"
	gomacho "debug/macho"
	"encoding/binary"
)

const (
	machHeader64Size = 32
	dylibCmdSize     = 24
	rpathCmdSize     = 12
	buildVersionSize = 24
	fatTestAlign     = 16

	fileTypeExecute = 0x2
	fileTypeDylib   = 0x6
)

// TestImage describes a minimal little endian 64 bit Mach-O file for tests.
type TestImage struct {
	// CPU defaults to arm64.
	CPU      gomacho.Cpu
	ID       string
	Dylibs   []string
	Rpaths   []string
	Platform Platform
}

// Bytes returns the encoded file.
func (i TestImage) Bytes() []byte {
	order := binary.LittleEndian

	var (
		cmds  bytes.Buffer
		ncmds uint32
	)

	writeStringCmd := func(cmd, fixedSize uint32, str string) {
		size := align(fixedSize+uint32(len(str))+1, 8)
		raw := make([]byte, size)
		order.PutUint32(raw[0:], cmd)
		order.PutUint32(raw[4:], size)
		order.PutUint32(raw[8:], fixedSize)

		if fixedSize == dylibCmdSize {
			order.PutUint32(raw[12:], 2)       // timestamp
			order.PutUint32(raw[16:], 0x10000) // current version
			order.PutUint32(raw[20:], 0x10000) // compatibility version
		}

		copy(raw[fixedSize:], str)
		cmds.Write(raw)
		ncmds++
	}

	fileType := uint32(fileTypeExecute)

	if i.ID != "" {
		fileType = fileTypeDylib
		writeStringCmd(lcIDDylib, dylibCmdSize, i.ID)
	}

	for _, name := range i.Dylibs {
		writeStringCmd(lcLoadDylib, dylibCmdSize, name)
	}

	for _, path := range i.Rpaths {
		writeStringCmd(lcRpath, rpathCmdSize, path)
	}

	if i.Platform != 0 {
		raw := make([]byte, buildVersionSize)
		order.PutUint32(raw[0:], lcBuildVersion)
		order.PutUint32(raw[4:], buildVersionSize)
		order.PutUint32(raw[8:], uint32(i.Platform))
		order.PutUint32(raw[12:], 0xe0000) // minos
		order.PutUint32(raw[16:], 0xe0000) // sdk
		cmds.Write(raw)
		ncmds++
	}

	cpu := i.CPU
	if cpu == 0 {
		cpu = gomacho.CpuArm64
	}

	header := make([]byte, machHeader64Size)
	order.PutUint32(header[0:], magic64)
	order.PutUint32(header[4:], uint32(cpu))
	order.PutUint32(header[12:], fileType)
	order.PutUint32(header[16:], ncmds)
	order.PutUint32(header[20:], uint32(cmds.Len()))

	return append(header, cmds.Bytes()...)
}

// TestFat returns a classic fat file containing the given slices in order.
// Each slice must be a thin Mach-O file, e.g. from [TestImage.Bytes].
func TestFat(slices ...[]byte) []byte {
	order := binary.BigEndian

	header := make([]byte, fatHeaderSize+len(slices)*fatArchSize)
	order.PutUint32(header[0:], magicFat)
	order.PutUint32(header[4:], uint32(len(slices)))

	offset := align(uint32(len(header)), fatTestAlign)
	body := make([]byte, 0, offset)

	for idx, slice := range slices {
		var cpu uint32
		if len(slice) >= 8 {
			cpu = binary.LittleEndian.Uint32(slice[4:8])
		}

		entry := header[fatHeaderSize+idx*fatArchSize:]
		order.PutUint32(entry[0:], cpu)
		order.PutUint32(entry[8:], offset)
		order.PutUint32(entry[12:], uint32(len(slice)))
		order.PutUint32(entry[16:], 4) // 2^4 alignment

		body = append(body, make([]byte, int(offset)-len(header)-len(body))...)
		body = append(body, slice...)
		offset = align(uint32(len(header)+len(body)), fatTestAlign)
	}

	return append(header, body...)
}

func align(value, alignment uint32) uint32 {
	return (value + alignment - 1) &^ (alignment - 1)
}
