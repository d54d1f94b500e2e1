package mips

import "testing"

func opR(funct uint8, rd, rs, rt Register, shamt uint8) uint32 {
	return uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | uint32(shamt)<<6 | uint32(funct)
}

func opI(opcode uint8, rs, rt Register, imm uint16) uint32 {
	return uint32(opcode)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(imm)
}

func TestDecodeRType(t *testing.T) {
	// add $t0, $t1, $t2
	word := opR(0x20, RegT0, RegT1, RegT2, 0)

	decoded := Decode(word)
	r, ok := decoded.(*RInstruction)
	if !ok {
		t.Fatalf("expected *RInstruction, got %T", decoded)
	}
	if r.Rs != uint8(RegT1) || r.Rt != uint8(RegT2) || r.Rd != uint8(RegT0) || r.Shamt != 0 || r.Funct != 0x20 {
		t.Errorf("decoded fields = %+v, want rs=9 rt=10 rd=8 shamt=0 funct=32", r)
	}
	if r.Mnemonic != "add" {
		t.Errorf("Mnemonic = %q, want add", r.Mnemonic)
	}
}

func TestDecodeIType(t *testing.T) {
	// addi $t0, $t1, 5
	word := opI(0x08, RegT1, RegT0, 5)

	decoded := Decode(word)
	i, ok := decoded.(*IInstruction)
	if !ok {
		t.Fatalf("expected *IInstruction, got %T", decoded)
	}
	if i.Rs != uint8(RegT1) || i.Rt != uint8(RegT0) || i.Immediate != 5 {
		t.Errorf("decoded fields = %+v, want rs=9 rt=8 imm=5", i)
	}
}

func TestDecodeJType(t *testing.T) {
	word := uint32(0x02)<<26 | 0x10 // j with word-index target 0x10
	decoded := Decode(word)
	j, ok := decoded.(*JInstruction)
	if !ok {
		t.Fatalf("expected *JInstruction, got %T", decoded)
	}
	if j.Target != 0x10 {
		t.Errorf("Target = 0x%X, want 0x10", j.Target)
	}
}

// Scenario 1 from spec §8: t1=32; t2=3; add t0,t1,t2 => t0==35.
func TestScenarioAdd(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT1), 32)
	cpu.SetReg(uint8(RegT2), 3)

	Decode(opR(0x20, RegT0, RegT1, RegT2, 0)).Execute(cpu, mem, false)

	if got := cpu.GetReg(uint8(RegT0)); got != 35 {
		t.Errorf("t0 = %d, want 35", got)
	}
}

// Scenario 2 from spec §8: t4=10; sll t3,zero,t4,2 => t3==40.
func TestScenarioShift(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT4), 10)

	Decode(opR(0x00, RegT3, RegZero, RegT4, 2)).Execute(cpu, mem, false)

	if got := cpu.GetReg(uint8(RegT3)); got != 40 {
		t.Errorf("t3 = %d, want 40", got)
	}
}

// Scenario 3 from spec §8: t1=32; addiu t1,t1,-16 => t1==16.
func TestScenarioSignExtend(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT1), 32)

	Decode(opI(0x09, RegT1, RegT1, 0xFFF0)).Execute(cpu, mem, false) // imm = -16

	if got := cpu.GetReg(uint8(RegT1)); got != 16 {
		t.Errorf("t1 = %d, want 16", got)
	}
}

// Scenario 5 from spec §8: addi overflow boundary.
func TestScenarioAddiOverflow(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT0), 1)

	Decode(opI(0x08, RegT0, RegT0, 0x7fff)).Execute(cpu, mem, false)
	if got := cpu.GetReg(uint8(RegT0)); got != 0x8000 {
		t.Errorf("t0 = 0x%X, want 0x8000", got)
	}

	cpu.SetReg(uint8(RegT0), 0x7fff_ffff)
	Decode(opI(0x08, RegT0, RegT0, 0x7fff)).Execute(cpu, mem, false)
	if got := cpu.GetReg(uint8(RegT0)); got != 0x7fff_ffff {
		t.Errorf("t0 = 0x%X after overflow, want unchanged 0x7fffffff", got)
	}
	if code := uint8((cpu.CP0.Reg(13) >> 2) & 0x1F); code != ExcOv {
		t.Errorf("exception code = %d, want Ov (%d)", code, ExcOv)
	}
}

func TestAddNoOverflowWraps(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT0), 10)
	cpu.SetReg(uint8(RegT1), 20)
	Decode(opR(0x20, RegT2, RegT0, RegT1, 0)).Execute(cpu, mem, false)
	if got := cpu.GetReg(uint8(RegT2)); got != 30 {
		t.Errorf("t2 = %d, want 30", got)
	}
}

func TestAdduNeverRaises(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT0), 0x7fff_ffff)
	cpu.SetReg(uint8(RegT1), 1)
	Decode(opR(0x21, RegT2, RegT0, RegT1, 0)).Execute(cpu, mem, false)
	if got := cpu.GetReg(uint8(RegT2)); got != 0x8000_0000 {
		t.Errorf("t2 = 0x%X, want wrapped 0x80000000", got)
	}
}

func TestDivideByZeroDoesNotPanic(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT0), 7)
	Decode(opR(0x1a, 0, RegT0, RegZero, 0)).Execute(cpu, mem, false)
	if cpu.LO != 0 || cpu.HI != 0 {
		t.Errorf("LO,HI = %d,%d after div by zero, want 0,0", cpu.LO, cpu.HI)
	}
}

func TestWriteToZeroIsDiscarded(t *testing.T) {
	cpu, mem := NewCPU(), NewMemory()
	cpu.SetReg(uint8(RegT0), 5)
	Decode(opR(0x21, RegZero, RegT0, RegZero, 0)).Execute(cpu, mem, false)
	if cpu.GetReg(uint8(RegZero)) != 0 {
		t.Errorf("$zero = %d after write, want 0", cpu.GetReg(uint8(RegZero)))
	}
}
