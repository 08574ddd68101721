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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lassandro/uartdiag/pkg/encoding"
	"github.com/lassandro/uartdiag/pkg/uart"
)

func (dbg *Debugger) Read(offset uint32, value uint32) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if offset == watchpoint.Offset {
			if dbg.HandleRead != nil {
				dbg.HandleRead(offset, value, dbg)
			}
			break
		}
	}
}

func (dbg *Debugger) Write(offset uint32, value uint32) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if offset == watchpoint.Offset {
			if dbg.HandleWrite != nil {
				dbg.HandleWrite(offset, value, dbg)
			}
			break
		}
	}
}

// Watch adds a watchpoint unless an identical one exists. It reports
// whether the watchpoint was added.
func (dbg *Debugger) Watch(wp Watchpoint) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint == wp {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, wp)
	return true
}

func (t WatchpointType) String() string {
	switch t {
	case ReadWatch:
		return "R"
	case WriteWatch:
		return "W"
	case ReadWriteWatch:
		return "RW"
	}

	return "?"
}

// ParseWatchpoint decodes [register][:type] where register is a name (LCR),
// a hex offset (0x8) or a decimal offset (#8), and type is one of r, w or
// rw. The type defaults to rw.
func ParseWatchpoint(s string) (Watchpoint, error) {
	const usage = "watch [LCR|DIV|TRX|FCR|LSR|0x##|#]:[read|write|readwrite]"

	var wp Watchpoint

	reg := s
	kind := "rw"

	if i := strings.Index(s, ":"); i != -1 {
		reg = s[:i]
		kind = s[i+1:]
	}

	if offset, ok := uart.RegisterOffset(strings.ToUpper(reg)); ok {
		wp.Offset = offset
	} else if strings.ContainsAny(reg, "xX") {
		offset, err := encoding.DecodeHex(reg)

		if err != nil {
			return wp, fmt.Errorf("%s: %w", usage, err)
		}

		wp.Offset = offset
	} else {
		offset, err := encoding.DecodeInt(reg)

		if err != nil {
			return wp, fmt.Errorf("%s: %w", usage, err)
		}

		if offset < 0 {
			return wp, errors.New(usage)
		}

		wp.Offset = uint32(offset)
	}

	switch strings.ToLower(kind) {
	case "r", "read":
		wp.Type = ReadWatch
	case "w", "write":
		wp.Type = WriteWatch
	case "rw", "rwrite", "readwrite":
		wp.Type = ReadWriteWatch
	default:
		return wp, errors.New(usage)
	}

	return wp, nil
}

// FormatAccess renders one register access, e.g. "[LCR +0x00] W 0x1f".
func FormatAccess(offset uint32, value uint32, write bool) string {
	name := uart.RegisterName(offset)

	if name == "" {
		name = "???"
	}

	dir := ReadWatch
	if write {
		dir = WriteWatch
	}

	return fmt.Sprintf("[%s +0x%02x] %s %#x", name, offset, dir, value)
}
