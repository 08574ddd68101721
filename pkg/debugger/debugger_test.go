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

package debugger_test

import (
	"testing"

	"github.com/lassandro/uartdiag/pkg/debugger"
	"github.com/lassandro/uartdiag/pkg/uart"
)

func TestParseWatchpoint(t *testing.T) {
	tests := []struct {
		Input string
		Want  debugger.Watchpoint
		Fail  bool
	}{
		{Input: "lcr", Want: debugger.Watchpoint{uart.REG_LCR, debugger.ReadWriteWatch}},
		{Input: "DIV:w", Want: debugger.Watchpoint{uart.REG_DIV, debugger.WriteWatch}},
		{Input: "lsr:read", Want: debugger.Watchpoint{uart.REG_LSR, debugger.ReadWatch}},
		{Input: "0x8:rw", Want: debugger.Watchpoint{uart.REG_TRX, debugger.ReadWriteWatch}},
		{Input: "x0c:W", Want: debugger.Watchpoint{uart.REG_FCR, debugger.WriteWatch}},
		{Input: "#16:r", Want: debugger.Watchpoint{uart.REG_LSR, debugger.ReadWatch}},
		{Input: "4", Want: debugger.Watchpoint{uart.REG_DIV, debugger.ReadWriteWatch}},
		{Input: "ier", Fail: true},
		{Input: "lcr:x", Fail: true},
		{Input: "-4", Fail: true},
		{Input: "0xZZ", Fail: true},
	}

	for _, test := range tests {
		t.Run(test.Input, func(t *testing.T) {
			have, err := debugger.ParseWatchpoint(test.Input)

			if test.Fail {
				if err == nil {
					t.Errorf("Expected error\nhave:%+v", have)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if have != test.Want {
				t.Errorf("Watchpoint mismatch\nwant:%+v\nhave:%+v", test.Want, have)
			}
		})
	}
}

type hit struct {
	Write  bool
	Offset uint32
	Value  uint32
}

func TestWatchpoints(t *testing.T) {
	var hits []hit

	dbg := debugger.Debugger{
		HandleRead: func(offset, value uint32, _ *debugger.Debugger) {
			hits = append(hits, hit{false, offset, value})
		},
		HandleWrite: func(offset, value uint32, _ *debugger.Debugger) {
			hits = append(hits, hit{true, offset, value})
		},
	}

	if !dbg.Watch(debugger.Watchpoint{uart.REG_LCR, debugger.WriteWatch}) {
		t.Fatal("Watchpoint not added")
	}

	if dbg.Watch(debugger.Watchpoint{uart.REG_LCR, debugger.WriteWatch}) {
		t.Error("Duplicate watchpoint added")
	}

	dbg.Watch(debugger.Watchpoint{uart.REG_LSR, debugger.ReadWatch})
	dbg.Watch(debugger.Watchpoint{uart.REG_TRX, debugger.ReadWriteWatch})

	dbg.Read(uart.REG_LCR, 0x1f)
	dbg.Write(uart.REG_LCR, 0x1f)
	dbg.Read(uart.REG_LSR, 0x80)
	dbg.Write(uart.REG_LSR, 0x0)
	dbg.Write(uart.REG_TRX, 0x41)
	dbg.Read(uart.REG_TRX, 0x42)
	dbg.Write(uart.REG_DIV, 434)

	want := []hit{
		{true, uart.REG_LCR, 0x1f},
		{false, uart.REG_LSR, 0x80},
		{true, uart.REG_TRX, 0x41},
		{false, uart.REG_TRX, 0x42},
	}

	if len(hits) != len(want) {
		t.Fatalf("Hit count mismatch\nwant:%d\nhave:%d (%+v)", len(want), len(hits), hits)
	}

	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("Hit mismatch\nwant:%+v (hit #%d)\nhave:%+v", want[i], i, hits[i])
		}
	}
}

func TestWatchpointsWithoutHandlers(t *testing.T) {
	var dbg debugger.Debugger
	dbg.Watch(debugger.Watchpoint{uart.REG_TRX, debugger.ReadWriteWatch})

	dbg.Read(uart.REG_TRX, 0)
	dbg.Write(uart.REG_TRX, 0)
}

func TestFormatAccess(t *testing.T) {
	tests := []struct {
		Offset uint32
		Value  uint32
		Write  bool
		Want   string
	}{
		{uart.REG_LCR, 0x1f, true, "[LCR +0x00] W 0x1f"},
		{uart.REG_DIV, 434, true, "[DIV +0x04] W 0x1b2"},
		{uart.REG_LSR, 0x80, false, "[LSR +0x10] R 0x80"},
		{uart.REG_TRX, 0, false, "[TRX +0x08] R 0x0"},
		{0x20, 1, false, "[??? +0x20] R 0x1"},
	}

	for _, test := range tests {
		if have := debugger.FormatAccess(test.Offset, test.Value, test.Write); have != test.Want {
			t.Errorf("Format mismatch\nwant:%s\nhave:%s", test.Want, have)
		}
	}
}

func TestDiagnosticWatch(t *testing.T) {
	var writes []string

	dbg := &debugger.Debugger{
		HandleWrite: func(offset, value uint32, _ *debugger.Debugger) {
			writes = append(writes, debugger.FormatAccess(offset, value, true))
		},
	}
	dbg.Watch(debugger.Watchpoint{uart.REG_FCR, debugger.WriteWatch})

	regs := make(map[uint32]uint32)
	diag := uart.NewDiagnostic(mapBus(regs), 0, nil)
	diag.Debugger = dbg
	diag.Init()

	want := []string{"[FCR +0x0c] W 0xf", "[FCR +0x0c] W 0xc"}

	if len(writes) != len(want) {
		t.Fatalf("Write count mismatch\nwant:%d\nhave:%d", len(want), len(writes))
	}

	for i := range want {
		if writes[i] != want[i] {
			t.Errorf("Write mismatch\nwant:%s\nhave:%s", want[i], writes[i])
		}
	}
}

type mapBus map[uint32]uint32

func (b mapBus) Read32(addr uint32) uint32 {
	return b[addr]
}

func (b mapBus) Write32(addr uint32, value uint32) {
	b[addr] = value
}
