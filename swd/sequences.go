package swd

// SpecialSeq identifies one of the fixed out-of-band bit sequences that move
// the debug port between JTAG, SWD and the low-power dormant state (spec
// §4.F SwitchSeq, ADIv5).
type SpecialSeq int

const (
	LineReset SpecialSeq = iota
	JTAGToSWD
	JTAGToDormant
	SWDToJTAG
	SWDToDormant
	DormantToSWD
	DormantToJTAG
)

// jtagToSWDMagic and swdToJTAGMagic are the 16-bit sequences (sent LSB-first,
// so they are quoted here MSB-first for readability) that toggle a DP
// between the two wire protocols once it is already awake.
const (
	jtagToSWDMagic uint32 = 0xE79E
	swdToJTAGMagic uint32 = 0xE73C
)

// selectionAlertSequence is the 128-bit ADIv5.2 Selection Alert Sequence
// that wakes every DP on the bus out of dormant state, sent LSB-first. Its
// value is fixed by the Arm Debug Interface specification, not by this
// driver.
var selectionAlertSequence = [16]byte{
	0x92, 0xF3, 0x09, 0x62, 0x95, 0x2D, 0x85, 0x86,
	0xE9, 0xAF, 0xDD, 0xE3, 0xA2, 0x0E, 0xBC, 0x19,
}

// Activation codes sent after the alert sequence and 4 idle cycles, picking
// which protocol the addressed DP wakes up into.
const (
	activationCodeSWD  uint32 = 0x1A
	activationCodeJTAG uint32 = 0x0A
)

// buildLineReset returns 56 bits of SWDIO high; its first lineResetBits
// (>=50) bits are the line reset that LineReset, JTAGToSWD, SWDToJTAG,
// JTAGToDormant and SWDToDormant begin with.
func buildLineReset() []byte {
	buf := make([]byte, 7)
	for i := range buf {
		buf[i] = 0xff
	}
	return buf
}

const lineResetBits = 52

// sequenceFor returns the canonical (bits, bitCount) pair for seq.
func sequenceFor(seq SpecialSeq) ([]byte, uint32, error) {
	switch seq {
	case LineReset:
		return buildLineReset(), lineResetBits, nil

	case JTAGToSWD:
		buf := make([]byte, 10)
		copy(buf, buildLineReset())
		setBits(buf, lineResetBits, 16, jtagToSWDMagic)
		return buf, lineResetBits + 16 + 8, nil

	case SWDToJTAG:
		buf := make([]byte, 10)
		copy(buf, buildLineReset())
		setBits(buf, lineResetBits, 16, swdToJTAGMagic)
		return buf, lineResetBits + 16 + 8, nil

	case JTAGToDormant:
		buf := make([]byte, 26)
		copy(buf, buildLineReset())
		for i, b := range selectionAlertSequence {
			setBits(buf, lineResetBits+uint32(i)*8, 8, uint32(b))
		}
		return buf, lineResetBits + 128, nil

	case DormantToSWD:
		buf := make([]byte, 20)
		copy(buf, selectionAlertSequence[:])
		setBits(buf, 128+4, 8, activationCodeSWD)
		return buf, 128 + 4 + 8, nil

	case DormantToJTAG:
		buf := make([]byte, 20)
		copy(buf, selectionAlertSequence[:])
		setBits(buf, 128+4, 8, activationCodeJTAG)
		return buf, 128 + 4 + 8, nil

	case SWDToDormant:
		buf := make([]byte, 10)
		copy(buf, buildLineReset())
		return buf, lineResetBits, nil

	default:
		return nil, 0, ErrUnsupportedSeq
	}
}
