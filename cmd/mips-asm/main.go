// Command mips-asm assembles one MIPS source line per input line, per
// spec §6's assemble contract: each line is printed with its encoded
// word or its error, and successfully assembled words are optionally
// appended to an output binary as little-endian bytes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/TheV360/toy-mips-emu/internal/mips"
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("usage: mips-asm <in.s> [out.bin]")
		os.Exit(1)
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading %s: %v", flag.Arg(0), err)
	}
	defer in.Close()

	var out *os.File
	if flag.NArg() > 1 {
		out, err = os.Create(flag.Arg(1))
		if err != nil {
			log.Fatalf("creating %s: %v", flag.Arg(1), err)
		}
		defer out.Close()
	}

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		line, skip := mips.PreprocessLine(raw)
		if skip {
			continue
		}

		word, err := mips.Assemble(line)
		if err != nil {
			fmt.Printf("%4d. Error: %s (%s)\n", lineNo, err, line)
			continue
		}

		fmt.Printf("%4d. 0x%08X (%s)\n", lineNo, word, line)

		if out != nil {
			bytes := []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
			if _, err := out.Write(bytes); err != nil {
				log.Fatalf("writing %s: %v", flag.Arg(1), err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading %s: %v", flag.Arg(0), err)
	}
}
