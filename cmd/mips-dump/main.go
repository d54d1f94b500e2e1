// Command mips-dump disassembles a flat binary of little-endian 32-bit
// instruction words, one line per word, per spec §6's dump contract.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/TheV360/toy-mips-emu/internal/mips"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("usage: mips-dump <in.bin>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading %s: %v", flag.Arg(0), err)
	}

	for addr := 0; addr+4 <= len(raw); addr += 4 {
		b := raw[addr : addr+4]
		word := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		disasm := mips.DisassembleAt(word, uint32(addr))
		fmt.Printf("0x%04x: %08x %-32s\n", addr, word, disasm)
	}
	if rem := len(raw) % 4; rem != 0 {
		log.Printf("warning: %d trailing byte(s) ignored (not a full word)", rem)
	}
}
