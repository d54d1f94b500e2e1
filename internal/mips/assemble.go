package mips

import (
	"fmt"
	"strconv"
	"strings"
)

// PreprocessLine trims a raw source line, reports whether it should be
// skipped (blank, or starting with "#"/"."), and strips a trailing
// "# ..." comment from what remains. Grounded on the original GUI
// assembler's line filter (skip blank/`#`/`.`-prefixed lines, cut on the
// first unescaped "#").
func PreprocessLine(raw string) (line string, skip bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ".") {
		return "", true
	}
	if before, _, found := strings.Cut(trimmed, "#"); found {
		trimmed = strings.TrimRight(before, " \t")
	}
	return trimmed, false
}

// Assemble encodes one line of MIPS assembly (mnemonic plus comma- or
// whitespace-separated operands) into its 32-bit word. Leading/trailing
// whitespace and a trailing "# ..." comment must already be stripped by
// the caller (see PreprocessLine and cmd/mips-asm), matching spec §4.5's
// "host strips comments" contract.
func Assemble(line string) (uint32, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing mnemonic")
	}
	mnemonic, args := fields[0], fields[1:]

	if mnemonic == "nop" {
		if len(args) != 0 {
			return 0, fmt.Errorf("too many arguments")
		}
		return 0, nil
	}

	entry, ok := lookupMnemonic(mnemonic)
	if !ok {
		return 0, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}

	switch entry.Format {
	case FormatR:
		return assembleR(entry, args)
	case FormatI:
		return assembleI(entry, args)
	case FormatJ:
		return assembleJ(entry, args)
	case FormatSys:
		return assembleSys(entry, args)
	case FormatCop0:
		return assembleCop0(entry, args)
	default:
		return 0, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
}

func assembleR(entry opEntry, args []string) (uint32, error) {
	want := 3
	if entry.UsesShamt {
		want = 4
	}
	if len(args) < want {
		return 0, fmt.Errorf("missing register")
	}
	if len(args) > want {
		return 0, fmt.Errorf("too many arguments")
	}

	rd, err := parseRegister(args[0])
	if err != nil {
		return 0, err
	}
	rs, err := parseRegister(args[1])
	if err != nil {
		return 0, err
	}
	rt, err := parseRegister(args[2])
	if err != nil {
		return 0, err
	}

	var shamt uint32
	if entry.UsesShamt {
		v, err := parseLiteral(args[3], 0, 31)
		if err != nil {
			return 0, err
		}
		shamt = uint32(v)
	}

	funct := mnemonicToFunction[entry.Mnemonic]
	word := uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | shamt<<6 | uint32(funct)
	return word, nil
}

func assembleI(entry opEntry, args []string) (uint32, error) {
	if len(args) < 3 {
		if len(args) < 2 {
			return 0, fmt.Errorf("missing register")
		}
		return 0, fmt.Errorf("missing immediate")
	}
	if len(args) > 3 {
		return 0, fmt.Errorf("too many arguments")
	}

	rt, err := parseRegister(args[0])
	if err != nil {
		return 0, err
	}
	rs, err := parseRegister(args[1])
	if err != nil {
		return 0, err
	}
	imm, err := parseLiteral(args[2], -32768, 65535)
	if err != nil {
		return 0, err
	}

	opcode := mnemonicToGeneral[entry.Mnemonic]
	word := uint32(opcode)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | (uint32(imm) & 0xFFFF)
	return word, nil
}

func assembleJ(entry opEntry, args []string) (uint32, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing immediate")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("too many arguments")
	}

	target, err := parseLiteral(args[0], 0, 0xFFFFFFFF)
	if err != nil {
		return 0, err
	}

	opcode := mnemonicToGeneral[entry.Mnemonic]
	word := uint32(opcode)<<26 | ((uint32(target) >> 2) & 0x03FF_FFFF)
	return word, nil
}

func assembleSys(entry opEntry, args []string) (uint32, error) {
	var code uint32
	switch len(args) {
	case 0:
	case 1:
		v, err := parseLiteral(args[0], 0, 0xFFFFF)
		if err != nil {
			return 0, err
		}
		code = uint32(v)
	default:
		return 0, fmt.Errorf("too many arguments")
	}

	funct := mnemonicToFunction[entry.Mnemonic]
	word := code<<6 | uint32(funct)
	return word, nil
}

func assembleCop0(entry opEntry, args []string) (uint32, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("missing register")
	}
	if len(args) > 2 {
		return 0, fmt.Errorf("too many arguments")
	}
	rt, err := parseRegister(args[0])
	if err != nil {
		return 0, err
	}
	rd, err := parseRegister(args[1])
	if err != nil {
		return 0, err
	}
	rs := mnemonicToCop0[entry.Mnemonic]
	word := uint32(0x10)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11
	return word, nil
}

func parseRegister(s string) (Register, error) {
	if !strings.HasPrefix(s, "$") {
		return 0, fmt.Errorf("missing $ prefix")
	}
	r, ok := LookupRegister(s[1:])
	if !ok {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	return r, nil
}

// parseLiteral parses a decimal/0x/0o/0b literal and range-checks it
// against [lo, hi] (inclusive, as a signed 64-bit comparison).
func parseLiteral(s string, lo, hi int64) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		// Might be a literal that only fits as unsigned (e.g. 0xFFFF).
		u, uerr := strconv.ParseUint(s, 0, 64)
		if uerr != nil {
			return 0, fmt.Errorf("literal parse failure: %q", s)
		}
		v = int64(u)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("literal out of range: %q", s)
	}
	return v, nil
}

func parseUintStrict(s string, base int, bits int) (uint64, error) {
	return strconv.ParseUint(s, base, bits)
}
