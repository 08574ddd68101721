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
	"errors"
	"fmt"
	"io"
)

var ErrNotReady = errors.New("Device not ready")

var registerNames = map[uint32]string{
	REG_LCR: "LCR",
	REG_DIV: "DIV",
	REG_TRX: "TRX",
	REG_FCR: "FCR",
	REG_LSR: "LSR",
}

// RegisterName returns the conventional name of the register at offset, or
// an empty string if nothing is mapped there.
func RegisterName(offset uint32) string {
	return registerNames[offset]
}

// RegisterOffset is the inverse of RegisterName. Names are upper case.
func RegisterOffset(name string) (uint32, bool) {
	for offset, regname := range registerNames {
		if regname == name {
			return offset, true
		}
	}

	return 0, false
}

func NewDiagnostic(bus Bus, base uint32, console io.Writer) *Diagnostic {
	if console == nil {
		console = io.Discard
	}

	return &Diagnostic{Bus: bus, Base: base, Console: console}
}

func (d *Diagnostic) read(offset uint32) uint32 {
	value := d.Bus.Read32(d.Base + offset)

	if d.Debugger != nil {
		d.Debugger.Read(offset, value)
	}

	return value
}

func (d *Diagnostic) write(offset uint32, value uint32) {
	d.Bus.Write32(d.Base+offset, value)

	if d.Debugger != nil {
		d.Debugger.Write(offset, value)
	}
}

func (d *Diagnostic) println(line string) error {
	_, err := io.WriteString(d.Console, line+"\n")
	return err
}

// Spins on LSR until the given status bit reads 0.
func (d *Diagnostic) wait(bit uint32, phase string, index int) error {
	var busy uint

	for (d.read(REG_LSR)>>bit)&0x1 == 1 {
		busy++

		if d.SpinLimit > 0 && busy >= d.SpinLimit {
			return fmt.Errorf(
				"%s %d: %w after %d polls", phase, index, ErrNotReady, busy,
			)
		}
	}

	return nil
}

// ReportRegisters prints the current divisor and line control values.
func (d *Diagnostic) ReportRegisters() error {
	div := d.read(REG_DIV)
	lcr := d.read(REG_LCR)

	_, err := fmt.Fprintf(d.Console, "REG_DIV: %x REG_LCR: %x\n", div, lcr)
	return err
}

// Init programs the divisor, resets and re-arms both FIFOs, then sets the
// line format. The order of these writes is part of the device contract.
func (d *Diagnostic) Init() {
	d.write(REG_DIV, DIV_115200)
	d.write(REG_FCR, FCR_CLEAR)
	d.write(REG_FCR, FCR_ARM)
	d.write(REG_LCR, LCR_8N1_IRQ)
}

// Transmit sends TX_COUNT bytes counting up from 'A', waiting for the
// transmitter before each one.
func (d *Diagnostic) Transmit() error {
	if err := d.println("uart tx test"); err != nil {
		return err
	}

	for i := 0; i < TX_COUNT; i++ {
		if err := d.wait(LSR_TX_BUSY, "tx", i); err != nil {
			return err
		}

		d.write(REG_TRX, uint32(uint8(TX_START+uint32(i))))
	}

	return d.println("uart tx test done")
}

// Receive reads RX_COUNT bytes and prints each one. It does not care how
// many bytes Transmit sent.
func (d *Diagnostic) Receive() error {
	if err := d.println("uart rx test"); err != nil {
		return err
	}

	for i := 0; i < RX_COUNT; i++ {
		if err := d.wait(LSR_RX_EMPTY, "rx", i); err != nil {
			return err
		}

		value := d.read(REG_TRX)

		// CHAR is the raw low byte, not a UTF-8 encoded rune
		if _, err := fmt.Fprintf(
			d.Console, "%d RECV: %x CHAR: %s\n", i, value, []byte{byte(value)},
		); err != nil {
			return err
		}
	}

	return d.println("uart rx test done")
}

func (d *Diagnostic) Run() error {
	if err := d.println("uart test"); err != nil {
		return err
	}

	if err := d.ReportRegisters(); err != nil {
		return err
	}

	d.Init()

	if err := d.ReportRegisters(); err != nil {
		return err
	}

	if err := d.Transmit(); err != nil {
		return err
	}

	if err := d.Receive(); err != nil {
		return err
	}

	return d.println("uart done")
}
