package vm

// vectors.go names the fixed low-memory trap and interrupt vectors.

// Fixed trap and interrupt vectors. Each vector is a pair of words: the new
// PC, then the new PSW.
const (
	VectorBPT    Word = 0x000C // breakpoint trap, 14 octal
	VectorIOT    Word = 0x0010 // IOT / reserved instruction, 20 octal
	VectorEMT    Word = 0x0018 // EMT, 30 octal
	VectorTRAP   Word = 0x001C // TRAP, 34 octal
	VectorRXINT  Word = 0x0030 // DL11 receiver interrupt
	VectorTXINT  Word = 0x0034 // DL11 transmitter interrupt
	ResetPC      Word = 0x0200 // initial PC and SP at reset
	ResetSP      Word = 0x0200
)
