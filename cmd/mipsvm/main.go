// Command mipsvm is the host runner: it allocates memory, loads a text
// and data image into it, and steps a core against that memory until it
// halts or is interrupted. It also implements the syscall service ABI
// from spec §6 (print_int, print_string, exit, sleep) since the core
// itself only raises the Sys exception and never interprets $v0.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheV360/toy-mips-emu/internal/mips"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	memoryFlag := flag.Uint64("mem", mips.AddressSpaceSize, "memory size in bytes (max 4294967295; only range-checked, the emulated memory is always the 1MiB address space)")
	textBase := flag.Uint64("text", 0, "base address of the .text image")
	dataBase := flag.Uint64("data", 0x2000, "base address of the .data image")
	handler := flag.Uint64("handler", 0, "exception handler address")
	interactive := flag.Bool("interactive", false, "single-step in an interactive terminal debugger")
	flag.Parse()

	if *memoryFlag > uint64(math.MaxUint32) {
		log.Fatalf("memory size %d exceeds max uint32 %d", *memoryFlag, uint64(math.MaxUint32))
	}

	args := flag.Args()
	if len(args) < 1 {
		log.Fatalf("usage: mipsvm [flags] <text.bin> [data.bin]")
	}

	printIfVerbose(*verbose, "loading program image...")
	text, err := readWords(args[0])
	if err != nil {
		log.Fatalf("reading text image: %v", err)
	}
	var data []byte
	if len(args) > 1 {
		data, err = os.ReadFile(args[1])
		if err != nil {
			log.Fatalf("reading data image: %v", err)
		}
	}

	mem := mips.NewMemory()
	if err := mips.LoadProgram(mem, uint32(*textBase), text, uint32(*dataBase), data); err != nil {
		log.Fatalf("loading program: %v", err)
	}

	cpu := mips.NewCPU()
	cpu.PC = uint32(*textBase)
	cpu.CP0.ExceptionHandler = uint32(*handler)

	if *interactive {
		if err := runInteractive(cpu, mem); err != nil {
			log.Fatalf("debugger: %v", err)
		}
		return
	}

	runToCompletion(cpu, mem, *verbose)
}

// runToCompletion steps the core in its own goroutine, dispatching
// syscalls inline via Step's exception hook, until it halts or the host
// receives an interrupt signal.
func runToCompletion(cpu *mips.CPU, mem *mips.Memory, verbose bool) {
	done := make(chan struct{})
	start := time.Now()

	go func() {
		for !cpu.CP0.Halt {
			if cpu.Step(mem) && exceptionCode(cpu) == mips.ExcSys {
				handleSyscall(cpu, mem)
			}
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		printIfVerbose(verbose, "signal received, stopping")
		cpu.Stop()
	case <-done:
	}

	printIfVerbose(verbose, "total execution time: %s", time.Since(start))
}

// handleSyscall implements the reference service ABI from spec §6. The
// core has already redirected PC to the exception handler; a real
// handler program would adjust EPC and return via jr $ra, but this toy
// host just services the call and resumes at EPC+4 directly, since no
// handler program is loaded by default.
func handleSyscall(cpu *mips.CPU, mem *mips.Memory) {
	switch cpu.GetReg(mips.RegV0.AsIndex()) {
	case 1: // print_int
		fmt.Print(int32(cpu.GetReg(mips.RegA0.AsIndex())))
	case 4: // print_string
		addr := cpu.GetReg(mips.RegA0.AsIndex())
		for {
			b, ok := mem.GetByte(addr)
			if !ok || b == 0 {
				break
			}
			fmt.Print(string(rune(b)))
			addr++
		}
	case 17: // exit
		cpu.CP0.Halt = true
	case 32: // sleep
		time.Sleep(time.Duration(cpu.GetReg(mips.RegA0.AsIndex())) * time.Millisecond)
	}
	cpu.PC = cpu.CP0.Reg(14) + 4 // resume past the faulting instruction
}

func exceptionCode(cpu *mips.CPU) uint8 {
	return uint8((cpu.CP0.Reg(13) >> 2) & 0x1F)
}

func readWords(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%s: length %d is not a multiple of 4", path, len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		b := raw[i*4 : i*4+4]
		words[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return words, nil
}

func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
