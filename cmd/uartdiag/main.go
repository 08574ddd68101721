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

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/lassandro/uartdiag/pkg/debugger"
	"github.com/lassandro/uartdiag/pkg/device"
	"github.com/lassandro/uartdiag/pkg/encoding"
	"github.com/lassandro/uartdiag/pkg/uart"
)

var helpvar bool
var simvar bool
var loopbackvar bool
var portvar string
var baudvar int
var basevar = uart.DEFAULT_BASE
var watchvar string
var spinvar uint

const usage = "uartdiag [-sim [-loopback] [-port device -baud rate]] " +
	"[-base 0x########] [-watch register:rw,...] [-spin-limit n]"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&simvar, "sim", false, "Runs against a simulated UART")
	flag.BoolVar(&loopbackvar, "loopback", false, "Echoes simulated TX into RX")
	flag.StringVar(&portvar, "port", "", "Host serial port used as the simulated line")
	flag.IntVar(&baudvar, "baud", 115200, "Baud rate of -port")
	flag.StringVar(&watchvar, "watch", "", "Comma separated register watchpoints")
	flag.UintVar(&spinvar, "spin-limit", 0, "Gives up after n busy polls (0 spins forever)")
	flag.Func("base", "Register block base address (default 0x10004000)",
		func(s string) error {
			addr, err := encoding.DecodeHex(s)

			if err != nil {
				return err
			}

			basevar = addr
			return nil
		},
	)
}

func handleRead(offset uint32, value uint32, dbg *debugger.Debugger) {
	log.Println(debugger.FormatAccess(offset, value, false))
}

func handleWrite(offset uint32, value uint32, dbg *debugger.Debugger) {
	log.Println(debugger.FormatAccess(offset, value, true))
}

func watchpoints() (*debugger.Debugger, error) {
	if watchvar == "" {
		return nil, nil
	}

	var dbg debugger.Debugger
	dbg.HandleRead = handleRead
	dbg.HandleWrite = handleWrite

	for _, arg := range strings.Split(watchvar, ",") {
		wp, err := debugger.ParseWatchpoint(strings.TrimSpace(arg))

		if err != nil {
			return nil, err
		}

		dbg.Watch(wp)
	}

	return &dbg, nil
}

// Simulated UART for -sim. Transmitted bytes go out on line, which must not
// be the console, and in feeds the receive FIFO.
func newSim(line io.Writer, in io.Reader) *device.UART {
	sim := device.NewUART(basevar, line)
	sim.Loopback = loopbackvar

	if in != nil {
		sim.Attach(in)
	}

	return sim
}

func newDiagnostic(bus uart.Bus, console io.Writer) (*uart.Diagnostic, error) {
	dbg, err := watchpoints()

	if err != nil {
		return nil, err
	}

	diag := uart.NewDiagnostic(bus, basevar, console)
	diag.SpinLimit = spinvar

	if dbg != nil {
		diag.Debugger = dbg
	}

	return diag, nil
}

func uartdiag() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if len(flag.Args()) != 0 {
		log.Println(usage)
		return 1
	}

	var bus uart.Bus
	var sim *device.UART

	switch {
	case portvar != "":
		var port io.Closer
		var err error

		sim, port, err = device.OpenSerial(basevar, portvar, baudvar)

		if err != nil {
			log.Println(err)
			return 1
		}

		defer port.Close()

		sim.Loopback = loopbackvar
		bus = sim

	case simvar:
		if isatty.IsTerminal(os.Stdin.Fd()) {
			if err := enterRawTerm(); err != nil {
				log.Println(err)
				return 1
			}

			defer exitRawTerm()
		}

		// stdout carries only the diagnostic lines
		sim = newSim(os.Stderr, os.Stdin)
		bus = sim

	default:
		mem, err := device.OpenMem(basevar, uart.REG_SPAN)

		if err != nil {
			log.Println(err)
			return 1
		}

		defer mem.Close()

		bus = mem
	}

	diag, err := newDiagnostic(bus, os.Stdout)

	if err != nil {
		log.Println(err)
		return 1
	}

	err = diag.Run()

	if sim != nil {
		if dropped := sim.Overruns(); dropped > 0 {
			log.Printf("%d received bytes dropped on overrun\n", dropped)
		}

		if lineErr := sim.Err(); lineErr != nil {
			log.Println(lineErr)
		}
	}

	if err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	flag.Parse()
	os.Exit(uartdiag())
}
