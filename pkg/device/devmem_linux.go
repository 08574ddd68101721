// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build linux
// +build linux

package device

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const DEVMEM = "/dev/mem"

// Mem is a window of physical memory mapped through /dev/mem. Accesses are
// atomic 32-bit loads and stores, which the compiler will not merge, cache
// or reorder.
type Mem struct {
	file  *os.File
	start uint32
	mem   []byte
}

// OpenMem maps the pages covering [base, base+size).
func OpenMem(base uint32, size uint32) (*Mem, error) {
	page := uint32(os.Getpagesize())
	start := base &^ (page - 1)
	length := (base - start + size + page - 1) &^ (page - 1)

	file, err := os.OpenFile(DEVMEM, os.O_RDWR|os.O_SYNC, 0)

	if err != nil {
		return nil, err
	}

	mem, err := unix.Mmap(
		int(file.Fd()),
		int64(start),
		int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)

	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mmap %#08x: %w", start, err)
	}

	return &Mem{file: file, start: start, mem: mem}, nil
}

func (m *Mem) word(addr uint32) *uint32 {
	if addr%4 != 0 || addr < m.start || addr-m.start+4 > uint32(len(m.mem)) {
		panic(fmt.Sprintf("Address %#08x outside mapped window", addr))
	}

	return (*uint32)(unsafe.Pointer(&m.mem[addr-m.start]))
}

func (m *Mem) Read32(addr uint32) uint32 {
	return atomic.LoadUint32(m.word(addr))
}

func (m *Mem) Write32(addr uint32, value uint32) {
	atomic.StoreUint32(m.word(addr), value)
}

func (m *Mem) Close() error {
	if m.mem != nil {
		if err := unix.Munmap(m.mem); err != nil {
			return err
		}

		m.mem = nil
	}

	if m.file != nil {
		err := m.file.Close()
		m.file = nil
		return err
	}

	return nil
}
