package aml

// Opcode identifies an AML encoding. Single-byte opcodes map to their byte
// value; opcodes that use the 0x5b extension prefix map to 0x5b00 plus their
// second byte, so the value always matches the big-endian wire bytes.
// Encodings that do not exist on the wire (name strings, field elements
// without a lead byte and method invocations) use values in the 0xff00 range.
type Opcode uint16

const extOpPrefix = 0x5b

const (
	// Regular opcode list
	OpZero             = Opcode(0x00)
	OpOne              = Opcode(0x01)
	OpAlias            = Opcode(0x06)
	OpName             = Opcode(0x08)
	OpBytePrefix       = Opcode(0x0a)
	OpWordPrefix       = Opcode(0x0b)
	OpDwordPrefix      = Opcode(0x0c)
	OpStringPrefix     = Opcode(0x0d)
	OpQwordPrefix      = Opcode(0x0e)
	OpScope            = Opcode(0x10)
	OpBuffer           = Opcode(0x11)
	OpPackage          = Opcode(0x12)
	OpVarPackage       = Opcode(0x13)
	OpMethod           = Opcode(0x14)
	OpExternal         = Opcode(0x15)
	OpLocal0           = Opcode(0x60)
	OpLocal1           = Opcode(0x61)
	OpLocal2           = Opcode(0x62)
	OpLocal3           = Opcode(0x63)
	OpLocal4           = Opcode(0x64)
	OpLocal5           = Opcode(0x65)
	OpLocal6           = Opcode(0x66)
	OpLocal7           = Opcode(0x67)
	OpArg0             = Opcode(0x68)
	OpArg1             = Opcode(0x69)
	OpArg2             = Opcode(0x6a)
	OpArg3             = Opcode(0x6b)
	OpArg4             = Opcode(0x6c)
	OpArg5             = Opcode(0x6d)
	OpArg6             = Opcode(0x6e)
	OpStore            = Opcode(0x70)
	OpRefOf            = Opcode(0x71)
	OpAdd              = Opcode(0x72)
	OpConcat           = Opcode(0x73)
	OpSubtract         = Opcode(0x74)
	OpIncrement        = Opcode(0x75)
	OpDecrement        = Opcode(0x76)
	OpMultiply         = Opcode(0x77)
	OpDivide           = Opcode(0x78)
	OpShiftLeft        = Opcode(0x79)
	OpShiftRight       = Opcode(0x7a)
	OpAnd              = Opcode(0x7b)
	OpNand             = Opcode(0x7c)
	OpOr               = Opcode(0x7d)
	OpNor              = Opcode(0x7e)
	OpXor              = Opcode(0x7f)
	OpNot              = Opcode(0x80)
	OpFindSetLeftBit   = Opcode(0x81)
	OpFindSetRightBit  = Opcode(0x82)
	OpDerefOf          = Opcode(0x83)
	OpConcatRes        = Opcode(0x84)
	OpMod              = Opcode(0x85)
	OpNotify           = Opcode(0x86)
	OpSizeOf           = Opcode(0x87)
	OpIndex            = Opcode(0x88)
	OpMatch            = Opcode(0x89)
	OpCreateDWordField = Opcode(0x8a)
	OpCreateWordField  = Opcode(0x8b)
	OpCreateByteField  = Opcode(0x8c)
	OpCreateBitField   = Opcode(0x8d)
	OpObjectType       = Opcode(0x8e)
	OpCreateQWordField = Opcode(0x8f)
	OpLand             = Opcode(0x90)
	OpLor              = Opcode(0x91)
	OpLnot             = Opcode(0x92)
	OpLEqual           = Opcode(0x93)
	OpLGreater         = Opcode(0x94)
	OpLLess            = Opcode(0x95)
	OpToBuffer         = Opcode(0x96)
	OpToDecimalString  = Opcode(0x97)
	OpToHexString      = Opcode(0x98)
	OpToInteger        = Opcode(0x99)
	OpToString         = Opcode(0x9c)
	OpCopyObject       = Opcode(0x9d)
	OpMid              = Opcode(0x9e)
	OpContinue         = Opcode(0x9f)
	OpIf               = Opcode(0xa0)
	OpElse             = Opcode(0xa1)
	OpWhile            = Opcode(0xa2)
	OpNoop             = Opcode(0xa3)
	OpReturn           = Opcode(0xa4)
	OpBreak            = Opcode(0xa5)
	OpBreakPoint       = Opcode(0xcc)
	OpOnes             = Opcode(0xff)

	// Extended opcode list
	OpMutex       = Opcode(0x5b01)
	OpEvent       = Opcode(0x5b02)
	OpCondRefOf   = Opcode(0x5b12)
	OpCreateField = Opcode(0x5b13)
	OpLoadTable   = Opcode(0x5b1f)
	OpLoad        = Opcode(0x5b20)
	OpStall       = Opcode(0x5b21)
	OpSleep       = Opcode(0x5b22)
	OpAcquire     = Opcode(0x5b23)
	OpSignal      = Opcode(0x5b24)
	OpWait        = Opcode(0x5b25)
	OpReset       = Opcode(0x5b26)
	OpRelease     = Opcode(0x5b27)
	OpFromBCD     = Opcode(0x5b28)
	OpToBCD       = Opcode(0x5b29)
	OpUnload      = Opcode(0x5b2a)
	OpRevision    = Opcode(0x5b30)
	OpDebug       = Opcode(0x5b31)
	OpFatal       = Opcode(0x5b32)
	OpTimer       = Opcode(0x5b33)
	OpOpRegion    = Opcode(0x5b80)
	OpField       = Opcode(0x5b81)
	OpDevice      = Opcode(0x5b82)
	OpProcessor   = Opcode(0x5b83)
	OpPowerRes    = Opcode(0x5b84)
	OpThermalZone = Opcode(0x5b85)
	OpIndexField  = Opcode(0x5b86)
	OpBankField   = Opcode(0x5b87)
	OpDataRegion  = Opcode(0x5b88)

	// Field element encodings. Apart from named fields they are selected
	// by a lead byte that is only meaningful inside a field list.
	OpIntReservedField    = Opcode(0xff00)
	OpIntAccessField      = Opcode(0xff01)
	OpIntConnectField     = Opcode(0xff02)
	OpIntExtAccessField   = Opcode(0xff03)
	OpIntNamedField       = Opcode(0xff04)
	OpIntNamePath         = Opcode(0xff05)
	OpIntMethodInvocation = Opcode(0xff06)
)

// IsExtended returns true if the opcode is encoded with the 0x5b prefix.
func (op Opcode) IsExtended() bool {
	return op>>8 == extOpPrefix
}
