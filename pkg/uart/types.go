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

package uart

import (
	"io"
)

// Bus is a 32-bit register space. Every call is a real access to the
// device: implementations must not cache, merge, reorder or drop them.
type Bus interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// RegisterDebugger observes each register access after it has happened.
// Offsets are relative to the diagnostic's base address.
type RegisterDebugger interface {
	Read(offset uint32, value uint32)
	Write(offset uint32, value uint32)
}

type Diagnostic struct {
	Bus      Bus
	Base     uint32
	Console  io.Writer
	Debugger RegisterDebugger

	// Maximum number of consecutive busy polls before giving up. Zero spins
	// forever, which is how the diagnostic behaves on bare metal.
	SpinLimit uint
}
