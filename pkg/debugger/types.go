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

package debugger

type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

// Watchpoint fires on accesses to the register at Offset from the
// diagnostic's base address.
type Watchpoint struct {
	Offset uint32
	Type   WatchpointType
}

type Debugger struct {
	Watchpoints []Watchpoint

	HandleRead  func(uint32, uint32, *Debugger)
	HandleWrite func(uint32, uint32, *Debugger)
}
