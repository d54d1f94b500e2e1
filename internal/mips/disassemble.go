package mips

import "fmt"

// Disassemble renders a 32-bit word in the canonical textual form from
// spec §4.4. Unknown opcode/funct combinations yield "???".
func Disassemble(word uint32) string {
	return DisassembleAt(word, 0)
}

// DisassembleAt takes the instruction's address alongside the word, for
// callers that iterate over a program (mirrors the teacher's
// cmd/mips_disassemble disassemble(inst, pc) signature). pc is not used:
// the output equals Disassemble(word), so branch offsets are printed as
// raw immediates and J-format targets as j_target<<2.
func DisassembleAt(word uint32, pc uint32) string {
	_ = pc
	opcode := uint8((word >> 26) & 0x3F)

	switch {
	case opcode == 0x00:
		funct := uint8(word & 0x3F)
		entry, known := functionTable[funct]
		if !known {
			return "???"
		}
		rs := Register((word >> 21) & 0x1F)
		rt := Register((word >> 16) & 0x1F)
		rd := Register((word >> 11) & 0x1F)
		shamt := (word >> 6) & 0x1F

		if entry.Format == FormatSys {
			code := (word >> 6) & 0xFFFFF
			return fmt.Sprintf("%s 0x%X", entry.Mnemonic, code)
		}
		if entry.UsesShamt {
			return fmt.Sprintf("%s $%s, $%s, $%s, %d", entry.Mnemonic, rd, rs, rt, shamt)
		}
		return fmt.Sprintf("%s $%s, $%s, $%s", entry.Mnemonic, rd, rs, rt)

	case opcode == 0x02 || opcode == 0x03:
		entry := generalTable[opcode]
		target := (word & 0x03FF_FFFF) << 2
		return fmt.Sprintf("%s 0x%08X", entry.Mnemonic, target)

	case opcode == 0x10:
		rs := uint8((word >> 21) & 0x1F)
		entry, known := cop0RsTable[rs]
		if !known {
			return "???"
		}
		rt := Register((word >> 16) & 0x1F)
		rd := Register((word >> 11) & 0x1F)
		return fmt.Sprintf("%s $%s, $%s", entry.Mnemonic, rt, rd)

	default:
		entry, known := generalTable[opcode]
		if !known {
			return "???"
		}
		rs := Register((word >> 21) & 0x1F)
		rt := Register((word >> 16) & 0x1F)
		imm := uint16(word & 0xFFFF)
		return fmt.Sprintf("%s $%s, $%s, 0x%X", entry.Mnemonic, rt, rs, imm)
	}
}
