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
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// OpenSerial returns a simulated UART whose line is a host serial port.
// Bytes written to TRX go out on the port and bytes arriving on the port
// fill the receive FIFO. Close the returned port when done.
func OpenSerial(base uint32, name string, baud int) (*UART, io.Closer, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})

	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}

	u := NewUART(base, port)
	u.Attach(port)

	return u, port, nil
}
