package mips

import "github.com/TheV360/toy-mips-emu/internal/utils"

// Instruction is a decoded 32-bit word ready to execute against a CPU and
// the memory it was fetched from. inDelaySlot tells Execute whether the
// instruction it is executing occupies a pending branch/jump's delay
// slot, which matters only for exception bookkeeping (Cause.BD, EPC).
type Instruction interface {
	Execute(cpu *CPU, mem *Memory, inDelaySlot bool)
}

// Decode splits a 32-bit word into opcode/operand fields and returns the
// Instruction that executes it (disassembly goes through Disassemble,
// which reads the word directly). Decode never fails: an opcode/funct
// combination absent from the table decodes to an instruction whose
// Execute raises the reserved-instruction exception.
func Decode(word uint32) Instruction {
	opcode := uint8((word >> 26) & 0x3F)

	switch {
	case opcode == 0x00:
		funct := uint8(word & 0x3F)
		entry, known := functionTable[funct]
		if known && entry.Format == FormatSys {
			return &SysInstruction{
				Code:     (word >> 6) & 0xFFFFF,
				Mnemonic: entry.Mnemonic,
			}
		}
		return &RInstruction{
			Rs:        uint8((word >> 21) & 0x1F),
			Rt:        uint8((word >> 16) & 0x1F),
			Rd:        uint8((word >> 11) & 0x1F),
			Shamt:     uint8((word >> 6) & 0x1F),
			Funct:     funct,
			Mnemonic:  entry.Mnemonic,
			UsesShamt: entry.UsesShamt,
			Known:     known,
		}

	case opcode == 0x02 || opcode == 0x03:
		entry := generalTable[opcode]
		return &JInstruction{
			Target:   word & 0x03FF_FFFF,
			Mnemonic: entry.Mnemonic,
		}

	case opcode == 0x10:
		rs := uint8((word >> 21) & 0x1F)
		entry, known := cop0RsTable[rs]
		return &Cop0Instruction{
			Rt:       uint8((word >> 16) & 0x1F),
			Rd:       uint8((word >> 11) & 0x1F),
			Mnemonic: entry.Mnemonic,
			Known:    known,
		}

	default:
		entry, known := generalTable[opcode]
		return &IInstruction{
			Opcode:    opcode,
			Rs:        uint8((word >> 21) & 0x1F),
			Rt:        uint8((word >> 16) & 0x1F),
			Immediate: uint16(word & 0xFFFF),
			Mnemonic:  entry.Mnemonic,
			Known:     known,
		}
	}
}

// RInstruction is an R-format instruction (opcode 0x00, dispatch on
// Funct).
type RInstruction struct {
	Rs, Rt, Rd, Shamt, Funct uint8
	Mnemonic                 string
	UsesShamt                bool
	Known                    bool
}

func (ri *RInstruction) Execute(cpu *CPU, mem *Memory, inDelaySlot bool) {
	if !ri.Known {
		cpu.raise(ExcRi, inDelaySlot)
		return
	}

	rs, rt := cpu.GetReg(ri.Rs), cpu.GetReg(ri.Rt)

	switch ri.Funct {
	case 0x00: // sll
		cpu.SetReg(ri.Rd, rt<<ri.Shamt)
	case 0x02: // srl
		cpu.SetReg(ri.Rd, rt>>ri.Shamt)
	case 0x08: // jr
		target := rs
		cpu.AfterDelay = &target
	case 0x09: // jalr
		ra := cpu.PC + 8
		cpu.SetReg(RegRa.AsIndex(), ra)
		target := rs
		cpu.AfterDelay = &target
	case 0x10: // mfhi
		cpu.SetReg(ri.Rd, cpu.HI)
	case 0x12: // mflo
		cpu.SetReg(ri.Rd, cpu.LO)
	case 0x18: // mult
		product := int64(int32(rs)) * int64(int32(rt))
		cpu.LO = uint32(product)
		cpu.HI = uint32(product >> 32)
	case 0x19: // multu
		product := uint64(rs) * uint64(rt)
		cpu.LO = uint32(product)
		cpu.HI = uint32(product >> 32)
	case 0x1a: // div
		if rt == 0 {
			cpu.LO, cpu.HI = 0, 0
		} else {
			cpu.LO = uint32(int32(rs) / int32(rt))
			cpu.HI = uint32(int32(rs) % int32(rt))
		}
	case 0x1b: // divu
		if rt == 0 {
			cpu.LO, cpu.HI = 0, 0
		} else {
			cpu.LO = rs / rt
			cpu.HI = rs % rt
		}
	case 0x20: // add
		sum := int32(rs) + int32(rt)
		if utils.CheckAdditionOverflow(int32(rs), int32(rt), sum) {
			cpu.raise(ExcOv, inDelaySlot)
			return
		}
		cpu.SetReg(ri.Rd, uint32(sum))
	case 0x21: // addu
		cpu.SetReg(ri.Rd, rs+rt)
	case 0x22: // sub
		diff := int32(rs) - int32(rt)
		if utils.CheckSubtractionOverflow(int32(rs), int32(rt), diff) {
			cpu.raise(ExcOv, inDelaySlot)
			return
		}
		cpu.SetReg(ri.Rd, uint32(diff))
	case 0x23: // subu
		cpu.SetReg(ri.Rd, rs-rt)
	case 0x24: // and
		cpu.SetReg(ri.Rd, rs&rt)
	case 0x25: // or
		cpu.SetReg(ri.Rd, rs|rt)
	case 0x26: // xor
		cpu.SetReg(ri.Rd, rs^rt)
	case 0x27: // nor
		cpu.SetReg(ri.Rd, ^(rs | rt))
	case 0x2a: // slt
		cpu.SetReg(ri.Rd, boolToWord(int32(rs) < int32(rt)))
	case 0x2b: // sltu
		cpu.SetReg(ri.Rd, boolToWord(rs < rt))
	case 0x34: // teq
		if rs == rt {
			cpu.raise(ExcTr, inDelaySlot)
		}
	default:
		cpu.raise(ExcRi, inDelaySlot)
	}
}

// IInstruction is an I-format instruction.
type IInstruction struct {
	Opcode    uint8
	Rs, Rt    uint8
	Immediate uint16
	Mnemonic  string
	Known     bool
}

func (ii *IInstruction) Execute(cpu *CPU, mem *Memory, inDelaySlot bool) {
	if !ii.Known {
		cpu.raise(ExcRi, inDelaySlot)
		return
	}

	rs, rt := cpu.GetReg(ii.Rs), cpu.GetReg(ii.Rt)
	sext := utils.SignExtend(uint32(ii.Immediate), 16)
	zext := uint32(ii.Immediate)

	switch ii.Opcode {
	case 0x04: // beq
		if rs == rt {
			target := cpu.PC + 8 + (sext << 2)
			cpu.AfterDelay = &target
		}
	case 0x05: // bne
		if rs != rt {
			target := cpu.PC + 8 + (sext << 2)
			cpu.AfterDelay = &target
		}
	case 0x08: // addi
		sum := int32(rs) + int32(sext)
		if utils.CheckAdditionOverflow(int32(rs), int32(sext), sum) {
			cpu.raise(ExcOv, inDelaySlot)
			return
		}
		cpu.SetReg(ii.Rt, uint32(sum))
	case 0x09: // addiu
		cpu.SetReg(ii.Rt, rs+sext)
	case 0x0a: // slti
		cpu.SetReg(ii.Rt, boolToWord(int32(rs) < int32(sext)))
	case 0x0b: // sltiu
		cpu.SetReg(ii.Rt, boolToWord(rs < sext))
	case 0x0c: // andi
		cpu.SetReg(ii.Rt, rs&zext)
	case 0x0d: // ori
		cpu.SetReg(ii.Rt, rs|zext)
	case 0x0e: // xori
		cpu.SetReg(ii.Rt, rs^zext)
	case 0x0f: // lui
		cpu.SetReg(ii.Rt, zext<<16)
	case 0x23: // lw
		addr := rs + sext
		word, _ := mem.GetWord(addr) // misaligned/out of range reads as 0
		cpu.SetReg(ii.Rt, word)
	case 0x24: // lbu
		addr := rs + sext
		b, _ := mem.GetByte(addr) // out of range reads as 0
		cpu.SetReg(ii.Rt, uint32(b))
	case 0x25: // lhu
		addr := rs + sext
		word, _ := mem.GetWord(addr) // misaligned/out of range reads as 0
		cpu.SetReg(ii.Rt, word&0xFFFF)
	case 0x28: // sb
		addr := rs + sext
		mem.SetByte(addr, byte(rt&0xFF))
	case 0x29: // sh
		addr := rs + sext
		mem.SetWord(addr, rt&0xFFFF)
	case 0x2b: // sw
		addr := rs + sext
		mem.SetWord(addr, rt)
	default:
		cpu.raise(ExcRi, inDelaySlot)
	}
}

// JInstruction is a J-format instruction.
type JInstruction struct {
	Target   uint32 // word-index target, bits 25..0
	Mnemonic string
}

func (ji *JInstruction) Execute(cpu *CPU, mem *Memory, inDelaySlot bool) {
	switch ji.Mnemonic {
	case "j":
		target := ji.Target << 2
		cpu.AfterDelay = &target
	case "jal":
		ra := cpu.PC + 8
		cpu.SetReg(RegRa.AsIndex(), ra)
		target := ji.Target << 2
		cpu.AfterDelay = &target
	default:
		cpu.raise(ExcRi, inDelaySlot)
	}
}

// SysInstruction is syscall/break (R-format, opcode 0x00, but carrying
// no register operands — just a 20-bit payload).
type SysInstruction struct {
	Code     uint32
	Mnemonic string
}

func (si *SysInstruction) Execute(cpu *CPU, mem *Memory, inDelaySlot bool) {
	switch si.Mnemonic {
	case "syscall":
		cpu.raise(ExcSys, inDelaySlot)
	case "break":
		cpu.raise(ExcBp, inDelaySlot)
	default:
		cpu.raise(ExcRi, inDelaySlot)
	}
}

// Cop0Instruction implements the mfc0/mtc0 register moves. These are
// accepted by the decoder/disassembler but are not required by the
// architectural test surface; an unknown rs sub-opcode raises Ri.
type Cop0Instruction struct {
	Rt, Rd   uint8
	Mnemonic string
	Known    bool
}

func (ci *Cop0Instruction) Execute(cpu *CPU, mem *Memory, inDelaySlot bool) {
	if !ci.Known {
		cpu.raise(ExcRi, inDelaySlot)
		return
	}
	switch ci.Mnemonic {
	case "mfc0":
		cpu.SetReg(ci.Rt, cpu.CP0.Reg(int(ci.Rd)))
	case "mtc0":
		cpu.CP0.SetReg(int(ci.Rd), cpu.GetReg(ci.Rt))
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// AsIndex lets a Register be used directly as a register-file index.
func (r Register) AsIndex() uint8 { return uint8(r) }
