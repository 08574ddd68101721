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

package device

import (
	"io"
	"sync"

	"github.com/lassandro/uartdiag/pkg/uart"
)

const FIFO_DEPTH = 64

const (
	FCR_RX_RESET uint32 = 1 << 0
	FCR_TX_RESET uint32 = 1 << 1
)

// UART is a software register file with the same layout as the hardware.
// Transmitted bytes go straight out on Line, so the transmitter is never
// busy. Received bytes come from an attached reader or, with Loopback set,
// from the transmitter.
type UART struct {
	Base     uint32
	Line     io.Writer
	Loopback bool

	mu  sync.Mutex
	lcr uint32
	div uint32
	fcr uint32
	rx  []byte

	overruns uint
	pumpErr  error
}

func NewUART(base uint32, line io.Writer) *UART {
	return &UART{Base: base, Line: line}
}

// Attach feeds everything read from r into the receive FIFO until r returns
// an error. The error, if not io.EOF, is reported by Err.
func (u *UART) Attach(r io.Reader) {
	go func() {
		scratch := make([]byte, FIFO_DEPTH)

		for {
			n, err := r.Read(scratch)

			if n > 0 {
				u.mu.Lock()
				u.push(scratch[:n]...)
				u.mu.Unlock()
			}

			if err != nil {
				if err != io.EOF {
					u.mu.Lock()
					u.pumpErr = err
					u.mu.Unlock()
				}
				return
			}
		}
	}()
}

// Overruns is the number of received bytes dropped because the FIFO was
// full.
func (u *UART) Overruns() uint {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.overruns
}

func (u *UART) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.pumpErr
}

// Callers hold u.mu
func (u *UART) push(data ...byte) {
	for _, b := range data {
		if len(u.rx) >= FIFO_DEPTH {
			u.overruns++
			continue
		}

		u.rx = append(u.rx, b)
	}
}

func (u *UART) Read32(addr uint32) uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch addr - u.Base {
	case uart.REG_LCR:
		return u.lcr
	case uart.REG_DIV:
		return u.div
	case uart.REG_FCR:
		return u.fcr
	case uart.REG_TRX:
		if len(u.rx) == 0 {
			return 0
		}

		b := u.rx[0]
		u.rx = u.rx[1:]
		return uint32(b)
	case uart.REG_LSR:
		var status uint32

		if len(u.rx) == 0 {
			status |= 1 << uart.LSR_RX_EMPTY
		}

		return status
	}

	return 0
}

func (u *UART) Write32(addr uint32, value uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch addr - u.Base {
	case uart.REG_LCR:
		u.lcr = value
	case uart.REG_DIV:
		u.div = value
	case uart.REG_FCR:
		if value&FCR_RX_RESET != 0 {
			u.rx = nil
		}

		// Reset bits are self-clearing
		u.fcr = value &^ (FCR_RX_RESET | FCR_TX_RESET)
	case uart.REG_TRX:
		b := byte(value & 0xFF)

		if u.Line != nil {
			if _, err := u.Line.Write([]byte{b}); err != nil {
				panic(err)
			}
		}

		if u.Loopback {
			u.push(b)
		}
	}
}
