package ramulator

// Opcode enumerates the AiM ISR opcode set (spec §6). It is only
// meaningful on a Request whose Type is TypeAIM.
type Opcode int

const (
	ISR_WR_SBK Opcode = iota
	ISR_WR_GB
	ISR_WR_BIAS
	ISR_WR_ABK
	ISR_RD_MAC
	ISR_RD_AF
	ISR_RD_SBK
	ISR_COPY_BKGB
	ISR_COPY_GBBK
	ISR_MAC_SBK
	ISR_MAC_ABK
	ISR_AF
	ISR_EWMUL
	ISR_EWADD
	ISR_EOC
	ISR_WR_AFLUT
)

var opcodeNames = map[Opcode]string{
	ISR_WR_SBK:    "ISR_WR_SBK",
	ISR_WR_GB:     "ISR_WR_GB",
	ISR_WR_BIAS:   "ISR_WR_BIAS",
	ISR_WR_ABK:    "ISR_WR_ABK",
	ISR_RD_MAC:    "ISR_RD_MAC",
	ISR_RD_AF:     "ISR_RD_AF",
	ISR_RD_SBK:    "ISR_RD_SBK",
	ISR_COPY_BKGB: "ISR_COPY_BKGB",
	ISR_COPY_GBBK: "ISR_COPY_GBBK",
	ISR_MAC_SBK:   "ISR_MAC_SBK",
	ISR_MAC_ABK:   "ISR_MAC_ABK",
	ISR_AF:        "ISR_AF",
	ISR_EWMUL:     "ISR_EWMUL",
	ISR_EWADD:     "ISR_EWADD",
	ISR_EOC:       "ISR_EOC",
	ISR_WR_AFLUT:  "ISR_WR_AFLUT",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return "ISR_UNKNOWN"
}

// Field identifies a Request field whose legality varies per opcode.
type Field int

const (
	FieldBankIndex Field = iota
	FieldRowAddr
	FieldColAddr
	FieldBroadcast
	FieldEwmulBG
)

// isrDescriptor is the static per-opcode metadata the decoder consults
// (spec §4.1): which fields are legal to copy into an emitted command,
// whether the opcode requires exactly one channel bit set, and whether it
// is AiM_DMA_blocking.
type isrDescriptor struct {
	legalFields        map[Field]bool
	channelCountEqOne  bool
	blocking           bool
}

func (d isrDescriptor) isFieldLegal(f Field) bool {
	return d.legalFields[f]
}

// isrTable is the static opcode → descriptor mapping. Reads, computes, the
// bank/global-buffer copies and ISR_EOC block the owning host request until
// the controller acknowledges completion; the ISR_WR_* writes do not. ISR_EWADD and ISR_WR_AFLUT are handled as special cases outside this
// table (spec §4.4) and are not looked up here.
var isrTable = map[Opcode]isrDescriptor{
	ISR_WR_SBK: {
		// Writes the same bank/row/column pattern to one bank per selected
		// channel; multiple channels may be selected at once (see the
		// opsize/channel fan-out scenario in the test suite).
		legalFields: map[Field]bool{FieldBankIndex: true, FieldRowAddr: true, FieldColAddr: true},
		blocking:    false,
	},
	ISR_WR_GB: {
		legalFields: map[Field]bool{FieldColAddr: true},
		blocking:    false,
	},
	ISR_WR_BIAS: {
		legalFields: map[Field]bool{FieldBankIndex: true, FieldColAddr: true},
		blocking:    false,
	},
	ISR_WR_ABK: {
		legalFields: map[Field]bool{FieldRowAddr: true, FieldColAddr: true},
		blocking:    false,
	},
	ISR_RD_MAC: {
		legalFields: map[Field]bool{FieldBankIndex: true},
		blocking:    true,
	},
	ISR_RD_AF: {
		legalFields: map[Field]bool{FieldBankIndex: true},
		blocking:    true,
	},
	ISR_RD_SBK: {
		legalFields:       map[Field]bool{FieldBankIndex: true, FieldRowAddr: true, FieldColAddr: true},
		channelCountEqOne: true,
		blocking:          true,
	},
	ISR_COPY_BKGB: {
		legalFields:       map[Field]bool{FieldBankIndex: true, FieldRowAddr: true, FieldColAddr: true},
		channelCountEqOne: true,
		blocking:          true,
	},
	ISR_COPY_GBBK: {
		legalFields:       map[Field]bool{FieldBankIndex: true, FieldRowAddr: true, FieldColAddr: true},
		channelCountEqOne: true,
		blocking:          true,
	},
	ISR_MAC_SBK: {
		legalFields:       map[Field]bool{FieldBankIndex: true, FieldRowAddr: true, FieldColAddr: true, FieldBroadcast: true},
		channelCountEqOne: true,
		blocking:          true,
	},
	ISR_MAC_ABK: {
		legalFields: map[Field]bool{FieldRowAddr: true, FieldColAddr: true, FieldBroadcast: true, FieldEwmulBG: true},
		blocking:    true,
	},
	ISR_AF: {
		legalFields:       map[Field]bool{FieldBankIndex: true},
		channelCountEqOne: true,
		blocking:          true,
	},
	ISR_EWMUL: {
		legalFields: map[Field]bool{FieldBankIndex: true, FieldColAddr: true},
		blocking:    true,
	},
	ISR_EOC: {
		legalFields: map[Field]bool{},
		blocking:    true,
	},
}

// lookupISR returns the descriptor for opcode, or ok=false if it is not a
// recognized table entry (either ISR_EWADD/ISR_WR_AFLUT, handled as
// special cases, or a genuinely unknown opcode).
func lookupISR(opcode Opcode) (isrDescriptor, bool) {
	d, ok := isrTable[opcode]
	return d, ok
}
