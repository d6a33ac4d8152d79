package vm

import "testing"

func TestMemory_WordReadWrite(tt *testing.T) {
	tt.Parallel()

	mem := NewMemory()

	if err := mem.WriteWord(0x1000, 0xBEEF); err != nil {
		tt.Fatalf("write: %s", err)
	}

	got, err := mem.ReadWord(0x1000)
	if err != nil {
		tt.Fatalf("read: %s", err)
	}

	if got != 0xBEEF {
		tt.Errorf("want 0xBEEF, got %s", got)
	}
}

func TestMemory_OddAddressRejected(tt *testing.T) {
	tt.Parallel()

	mem := NewMemory()

	if _, err := mem.ReadWord(0x1001); err == nil {
		tt.Error("want error reading odd address")
	}

	if err := mem.WriteWord(0x1001, 0); err == nil {
		tt.Error("want error writing odd address")
	}
}

func TestMemory_ByteWritePreservesSibling(tt *testing.T) {
	tt.Parallel()

	mem := NewMemory()

	_ = mem.WriteWord(0x2000, 0x1234)
	mem.WriteByte(0x2000, 0xFF)

	got, _ := mem.ReadWord(0x2000)
	if got != 0x12FF {
		tt.Errorf("want 0x12ff, got %s", got)
	}
}

type testCell struct {
	val Word
}

func (c *testCell) ReadWord() Word   { return c.val }
func (c *testCell) WriteWord(w Word) { c.val = w }

func TestMemory_MapUnmapWord(tt *testing.T) {
	tt.Parallel()

	mem := NewMemory()
	cell := &testCell{val: 0x00FF}

	if err := mem.MapWord(0x3000, cell); err != nil {
		tt.Fatalf("map: %s", err)
	}

	got, _ := mem.ReadWord(0x3000)
	if got != 0x00FF {
		tt.Errorf("mapped read: want 0x00ff, got %s", got)
	}

	_ = mem.WriteWord(0x3000, 0xABCD)
	if cell.val != 0xABCD {
		tt.Errorf("mapped write: want cell updated to 0xabcd, got %s", cell.val)
	}

	mem.UnmapWord(0x3000)

	got, _ = mem.ReadWord(0x3000)
	if got != 0xABCD {
		tt.Errorf("after unmap, want materialized value 0xabcd, got %s", got)
	}

	// Plain writes after unmap no longer reach the cell.
	_ = mem.WriteWord(0x3000, 0x0001)
	if cell.val != 0xABCD {
		tt.Errorf("unmapped cell must not be touched, want 0xabcd, got %s", cell.val)
	}
}

func TestRegisterCell(tt *testing.T) {
	tt.Parallel()

	var psw PSW = FlagZ
	cell := RegisterCell{Reg: &psw}

	if cell.ReadWord() != Word(FlagZ) {
		tt.Errorf("want %s, got %s", Word(FlagZ), cell.ReadWord())
	}

	cell.WriteWord(Word(FlagC))

	if psw != FlagC {
		tt.Errorf("want FlagC, got %s", psw)
	}
}
