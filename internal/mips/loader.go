package mips

import "fmt"

// LoadProgram bulk-writes an assembled text image and a raw data image
// into memory at their configured base addresses. It is a host
// convenience, not part of the architectural core: Memory.SetSlice
// refuses to cross a page boundary (spec §4.6), so LoadProgram splits
// each image at page boundaries on the caller's behalf, mirroring the
// bulk mem.set_slice(addr, &bytes) call the original GUI assembler made
// against a non-paged memory.
func LoadProgram(mem *Memory, textBase uint32, text []uint32, dataBase uint32, data []byte) error {
	textBytes := make([]byte, 0, len(text)*4)
	for _, word := range text {
		textBytes = append(textBytes,
			byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
	}

	if err := writeSplitAtPages(mem, textBase, textBytes); err != nil {
		return fmt.Errorf("loading text image: %w", err)
	}
	if err := writeSplitAtPages(mem, dataBase, data); err != nil {
		return fmt.Errorf("loading data image: %w", err)
	}
	return nil
}

func writeSplitAtPages(mem *Memory, addr uint32, data []byte) error {
	for len(data) > 0 {
		_, offset, inRange := pageOf(addr)
		if !inRange {
			return fmt.Errorf("address 0x%X out of range", addr)
		}
		chunk := PageSize - offset
		if chunk > uint32(len(data)) {
			chunk = uint32(len(data))
		}
		if !mem.SetSlice(addr, data[:chunk]) {
			return fmt.Errorf("failed writing %d bytes at 0x%X", chunk, addr)
		}
		data = data[chunk:]
		addr += chunk
	}
	return nil
}
