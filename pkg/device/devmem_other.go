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

//go:build !linux
// +build !linux

package device

import (
	"errors"
)

type Mem struct{}

func OpenMem(base uint32, size uint32) (*Mem, error) {
	return nil, errors.New("Physical memory access requires linux")
}

func (m *Mem) Read32(addr uint32) uint32 {
	panic("Mem is not available on this platform")
}

func (m *Mem) Write32(addr uint32, value uint32) {
	panic("Mem is not available on this platform")
}

func (m *Mem) Close() error {
	return nil
}
