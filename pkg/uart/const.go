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

const DEFAULT_BASE uint32 = 0x10004000

// Register offsets from the base address. All registers are 32 bits wide.
const (
	REG_LCR uint32 = 0x00
	REG_DIV uint32 = 0x04
	REG_TRX uint32 = 0x08
	REG_FCR uint32 = 0x0C
	REG_LSR uint32 = 0x10

	// Bytes covered by the register block
	REG_SPAN uint32 = REG_LSR + 4
)

// LSR status bits, as bit positions
const (
	LSR_RX_EMPTY uint32 = 7
	LSR_TX_BUSY  uint32 = 8
)

const (
	// 50 MHz / 115200 baud
	DIV_115200 uint32 = 434

	FCR_CLEAR uint32 = 0b1111
	FCR_ARM   uint32 = 0b1100

	// 8N1, all interrupts enabled
	LCR_8N1_IRQ uint32 = 0b00011111
)

const (
	TX_START uint32 = 0x41
	TX_COUNT        = 48
	RX_COUNT        = 100
)
