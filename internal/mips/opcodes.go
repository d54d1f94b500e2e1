package mips

// Format identifies the bit-layout and disassembly/assembly template a
// mnemonic uses. The opcode table below is the single source of truth
// for decode, disassembly, and the assembler; execution dispatch (in
// instructions.go) switches on the same opcode/funct values and must be
// kept in lockstep with this table.
type Format uint8

const (
	FormatR Format = iota
	FormatI
	FormatJ
	FormatSys
	FormatCop0 // mfc0/mtc0: "mnem $rt, $rd" — a decode/assemble convenience
	// beyond the required test surface, since spec.md allows but does not
	// require executing coprocessor-0 moves.
)

// opEntry is one row of the opcode table.
type opEntry struct {
	Mnemonic  string
	Format    Format
	UsesShamt bool // FormatR only: whether the textual form includes shamt
}

// generalTable is keyed by the primary opcode (bits 31:26) for every
// instruction except R-format (opcode 0) and the cop0 moves (opcode
// 0x10), which have their own tables below.
var generalTable = map[uint8]opEntry{
	0x02: {"j", FormatJ, false},
	0x03: {"jal", FormatJ, false},
	0x04: {"beq", FormatI, false},
	0x05: {"bne", FormatI, false},
	0x08: {"addi", FormatI, false},
	0x09: {"addiu", FormatI, false},
	0x0a: {"slti", FormatI, false},
	0x0b: {"sltiu", FormatI, false},
	0x0c: {"andi", FormatI, false},
	0x0d: {"ori", FormatI, false},
	0x0e: {"xori", FormatI, false},
	0x0f: {"lui", FormatI, false},
	0x23: {"lw", FormatI, false},
	0x24: {"lbu", FormatI, false},
	0x25: {"lhu", FormatI, false},
	0x28: {"sb", FormatI, false},
	0x29: {"sh", FormatI, false},
	0x2b: {"sw", FormatI, false},
}

// functionTable is keyed by funct (bits 5:0) when the primary opcode is
// 0x00.
var functionTable = map[uint8]opEntry{
	0x00: {"sll", FormatR, true},
	0x02: {"srl", FormatR, true},
	0x08: {"jr", FormatR, false},
	0x09: {"jalr", FormatR, false},
	0x0c: {"syscall", FormatSys, false},
	0x0d: {"break", FormatSys, false},
	0x10: {"mfhi", FormatR, false},
	0x12: {"mflo", FormatR, false},
	0x18: {"mult", FormatR, false},
	0x19: {"multu", FormatR, false},
	0x1a: {"div", FormatR, false},
	0x1b: {"divu", FormatR, false},
	0x20: {"add", FormatR, false},
	0x21: {"addu", FormatR, false},
	0x22: {"sub", FormatR, false},
	0x23: {"subu", FormatR, false},
	0x24: {"and", FormatR, false},
	0x25: {"or", FormatR, false},
	0x26: {"xor", FormatR, false},
	0x27: {"nor", FormatR, false},
	0x2a: {"slt", FormatR, false},
	0x2b: {"sltu", FormatR, false},
	0x34: {"teq", FormatR, false},
}

// cop0RsTable is keyed by the rs field when the primary opcode is 0x10
// (coprocessor 0). Only the register-move subset is modeled.
var cop0RsTable = map[uint8]opEntry{
	0x00: {"mfc0", FormatCop0, false},
	0x04: {"mtc0", FormatCop0, false},
}

var mnemonicToFunction = invert(functionTable)
var mnemonicToGeneral = invert(generalTable)
var mnemonicToCop0 = invert(cop0RsTable)

func invert(table map[uint8]opEntry) map[string]uint8 {
	out := make(map[string]uint8, len(table))
	for code, entry := range table {
		out[entry.Mnemonic] = code
	}
	return out
}

// lookupMnemonic finds the opcode table row for an assembler mnemonic,
// searching the function, general, and cop0 tables in that order. The
// numeric code is not returned; callers look it up in the matching
// mnemonicTo* map.
func lookupMnemonic(mnemonic string) (entry opEntry, ok bool) {
	if code, ok := mnemonicToFunction[mnemonic]; ok {
		return functionTable[code], true
	}
	if code, ok := mnemonicToGeneral[mnemonic]; ok {
		return generalTable[code], true
	}
	if code, ok := mnemonicToCop0[mnemonic]; ok {
		return cop0RsTable[code], true
	}
	return opEntry{}, false
}
