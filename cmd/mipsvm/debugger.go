package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/TheV360/toy-mips-emu/internal/mips"
)

// runInteractive puts the terminal in raw mode and single-steps the
// core one keystroke at a time, printing the instruction about to run
// after each step. The register file is printed on request and once the
// core halts. Grounded on the teacher's
// commented-out term.MakeRaw/term.Restore pair and its
// keyboard.GetSingleKey TRAP_GETC/TRAP_IN handling, both revived here
// for MIPS single-stepping instead of LC3 console traps.
//
// Keys: space/n steps one instruction, c runs to completion, r dumps
// registers, q or Ctrl+C quits.
func runInteractive(cpu *mips.CPU, mem *mips.Memory) error {
	fd := 0 // os.Stdin
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw terminal mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	printInstructionLine(cpu, mem)

	for !cpu.CP0.Halt {
		ch, key, err := keyboard.GetSingleKey()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		switch {
		case key == keyboard.KeyCtrlC, key == keyboard.KeyEsc, ch == 'q':
			return nil
		case key == keyboard.KeySpace, key == keyboard.KeyEnter, ch == 'n':
			stepOne(cpu, mem)
			printInstructionLine(cpu, mem)
		case ch == 'c':
			for !cpu.CP0.Halt {
				stepOne(cpu, mem)
			}
		case ch == 'r':
			dumpRegisters(cpu)
		}
	}
	dumpRegisters(cpu)
	return nil
}

func stepOne(cpu *mips.CPU, mem *mips.Memory) {
	if cpu.Step(mem) && exceptionCode(cpu) == mips.ExcSys {
		handleSyscall(cpu, mem)
	}
}

func printInstructionLine(cpu *mips.CPU, mem *mips.Memory) {
	word, _ := mem.GetWord(cpu.PC)
	fmt.Printf("\r\n0x%08X: %08X  %s\r\n", cpu.PC, word, mips.DisassembleAt(word, cpu.PC))
}

func dumpRegisters(cpu *mips.CPU) {
	fmt.Print("\r\n")
	for i := 0; i < 32; i++ {
		fmt.Printf("$%-4s=0x%08X ", mips.Register(i).String(), cpu.GetReg(uint8(i)))
		if i%4 == 3 {
			fmt.Print("\r\n")
		}
	}
	fmt.Printf("hi=0x%08X lo=0x%08X pc=0x%08X\r\n", cpu.HI, cpu.LO, cpu.PC)
}
