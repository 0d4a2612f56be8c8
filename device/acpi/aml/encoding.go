package aml

// ArgType is a grammar symbol describing how a fixed argument is encoded.
type ArgType uint8

// The list of supported fixed argument symbols. ArgTypeNone terminates a
// fixed argument list.
const (
	ArgTypeNone ArgType = iota
	ArgTypeUInt8
	ArgTypeUInt16
	ArgTypeUInt32
	ArgTypeUInt64
	ArgTypeObject
	ArgTypeNameString
	ArgTypeString
	ArgTypeFieldPkgLen
)

var argTypeNames = [...]string{
	ArgTypeNone:        "None",
	ArgTypeUInt8:       "UInt8",
	ArgTypeUInt16:      "UInt16",
	ArgTypeUInt32:      "UInt32",
	ArgTypeUInt64:      "UInt64",
	ArgTypeObject:      "Object",
	ArgTypeNameString:  "NameString",
	ArgTypeString:      "String",
	ArgTypeFieldPkgLen: "FieldPkgLen",
}

func (t ArgType) String() string {
	if int(t) < len(argTypeNames) {
		return argTypeNames[t]
	}
	return "unknown"
}

// width returns the byte width of an integer symbol or 0 for anything else.
func (t ArgType) width() uint32 {
	switch t {
	case ArgTypeUInt8:
		return 1
	case ArgTypeUInt16:
		return 2
	case ArgTypeUInt32:
		return 4
	case ArgTypeUInt64:
		return 8
	}
	return 0
}

// maxFixedArgs is the max number of fixed arguments of any encoding.
const maxFixedArgs = 7

// argTypeList packs up to maxFixedArgs ArgType values, 8 bits each. The
// list ends at the first ArgTypeNone slot.
type argTypeList uint64

func makeArgs(args ...ArgType) argTypeList {
	if len(args) > maxFixedArgs {
		panic("aml: too many fixed arguments")
	}

	var list argTypeList
	for i, arg := range args {
		list |= argTypeList(arg) << (8 * uint(i))
	}
	return list
}

func (l argTypeList) count() int {
	var n int
	for ; n < maxFixedArgs && l.arg(n) != ArgTypeNone; n++ {
	}
	return n
}

func (l argTypeList) arg(i int) ArgType {
	return ArgType(l >> (8 * uint(i)))
}

// Attr is a set of ByteEncoding attribute flags.
type Attr uint16

// The list of supported encoding attributes.
const (
	// The encoding is followed by a PkgLength.
	AttrHasPkgLength Attr = 1 << iota

	// The fixed arguments are followed by a list of objects.
	AttrHasChildObjects

	// The fixed arguments are followed by a list of raw bytes.
	AttrHasByteList

	// The fixed arguments are followed by a list of field elements.
	AttrHasFieldList

	// One of the fixed arguments declares a name in the namespace.
	AttrDeclaresName

	// The encoding describes an element of a field list.
	AttrIsFieldElement

	// The encoding describes the first byte of a NameString.
	AttrIsNameChar
)

// ByteEncoding describes how an AML opcode is encoded.
type ByteEncoding struct {
	op    Opcode
	name  string
	attrs Attr
	args  argTypeList

	// The index of the fixed argument carrying the declared name for
	// encodings with AttrDeclaresName.
	nameArg uint8
}

// Opcode returns the opcode for this encoding.
func (enc *ByteEncoding) Opcode() Opcode { return enc.op }

// Name returns the ASL mnemonic for this encoding.
func (enc *ByteEncoding) Name() string { return enc.name }

// Has returns true if all attributes in attrs are set.
func (enc *ByteEncoding) Has(attrs Attr) bool { return enc.attrs&attrs == attrs }

// NumFixedArgs returns the number of fixed arguments for this encoding.
func (enc *ByteEncoding) NumFixedArgs() int { return enc.args.count() }

// FixedArg returns the symbol for fixed argument i or ArgTypeNone if i is
// out of range.
func (enc *ByteEncoding) FixedArg(i int) ArgType {
	if i < 0 || i >= maxFixedArgs {
		return ArgTypeNone
	}
	return enc.args.arg(i)
}

// opensScope returns true if names declared by the encoding's children live
// inside the scope introduced by the encoding.
func (enc *ByteEncoding) opensScope() bool {
	return enc.Has(AttrDeclaresName | AttrHasChildObjects)
}

// OpcodeBytes returns the bytes that introduce this encoding in an AML
// stream. Encodings without a lead byte return nil.
func (enc *ByteEncoding) OpcodeBytes() []byte {
	switch {
	case enc.op.IsExtended():
		return []byte{extOpPrefix, byte(enc.op)}
	case enc.op <= OpOnes:
		return []byte{byte(enc.op)}
	case enc.Has(AttrIsFieldElement) && enc.op != OpIntNamedField:
		return []byte{byte(enc.op)}
	}
	return nil
}

// opcodeLen returns len(enc.OpcodeBytes()) without allocating.
func (enc *ByteEncoding) opcodeLen() uint32 {
	switch {
	case enc.op.IsExtended():
		return 2
	case enc.op <= OpOnes:
		return 1
	case enc.Has(AttrIsFieldElement) && enc.op != OpIntNamedField:
		return 1
	}
	return 0
}

const (
	withPkgLen   = AttrHasPkgLength
	withChildren = AttrHasChildObjects
	withByteList = AttrHasByteList
	withFields   = AttrHasFieldList
	declares     = AttrDeclaresName
)

const (
	tObj      = ArgTypeObject
	tName     = ArgTypeNameString
	tU8       = ArgTypeUInt8
	tU16      = ArgTypeUInt16
	tU32      = ArgTypeUInt32
	tU64      = ArgTypeUInt64
	tStr      = ArgTypeString
	tFieldLen = ArgTypeFieldPkgLen
)

// encodingTable contains the encodings of all opcodes that can appear in an
// AML stream where an object is expected.
var encodingTable = []ByteEncoding{
	{OpZero, "Zero", 0, makeArgs(), 0},
	{OpOne, "One", 0, makeArgs(), 0},
	{OpAlias, "Alias", declares, makeArgs(tName, tName), 1},
	{OpName, "Name", declares, makeArgs(tName, tObj), 0},
	{OpBytePrefix, "Byte", 0, makeArgs(tU8), 0},
	{OpWordPrefix, "Word", 0, makeArgs(tU16), 0},
	{OpDwordPrefix, "Dword", 0, makeArgs(tU32), 0},
	{OpStringPrefix, "String", 0, makeArgs(tStr), 0},
	{OpQwordPrefix, "Qword", 0, makeArgs(tU64), 0},
	{OpScope, "Scope", withPkgLen | withChildren | declares, makeArgs(tName), 0},
	{OpBuffer, "Buffer", withPkgLen | withByteList, makeArgs(tObj), 0},
	{OpPackage, "Package", withPkgLen | withChildren, makeArgs(tU8), 0},
	{OpVarPackage, "VarPackage", withPkgLen | withChildren, makeArgs(tObj), 0},
	{OpMethod, "Method", withPkgLen | withChildren | declares, makeArgs(tName, tU8), 0},
	{OpExternal, "External", declares, makeArgs(tName, tU8, tU8), 0},
	{OpLocal0, "Local0", 0, makeArgs(), 0},
	{OpLocal1, "Local1", 0, makeArgs(), 0},
	{OpLocal2, "Local2", 0, makeArgs(), 0},
	{OpLocal3, "Local3", 0, makeArgs(), 0},
	{OpLocal4, "Local4", 0, makeArgs(), 0},
	{OpLocal5, "Local5", 0, makeArgs(), 0},
	{OpLocal6, "Local6", 0, makeArgs(), 0},
	{OpLocal7, "Local7", 0, makeArgs(), 0},
	{OpArg0, "Arg0", 0, makeArgs(), 0},
	{OpArg1, "Arg1", 0, makeArgs(), 0},
	{OpArg2, "Arg2", 0, makeArgs(), 0},
	{OpArg3, "Arg3", 0, makeArgs(), 0},
	{OpArg4, "Arg4", 0, makeArgs(), 0},
	{OpArg5, "Arg5", 0, makeArgs(), 0},
	{OpArg6, "Arg6", 0, makeArgs(), 0},
	{OpStore, "Store", 0, makeArgs(tObj, tObj), 0},
	{OpRefOf, "RefOf", 0, makeArgs(tObj), 0},
	{OpAdd, "Add", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpConcat, "Concat", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpSubtract, "Subtract", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpIncrement, "Increment", 0, makeArgs(tObj), 0},
	{OpDecrement, "Decrement", 0, makeArgs(tObj), 0},
	{OpMultiply, "Multiply", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpDivide, "Divide", 0, makeArgs(tObj, tObj, tObj, tObj), 0},
	{OpShiftLeft, "ShiftLeft", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpShiftRight, "ShiftRight", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpAnd, "And", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpNand, "Nand", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpOr, "Or", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpNor, "Nor", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpXor, "Xor", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpNot, "Not", 0, makeArgs(tObj, tObj), 0},
	{OpFindSetLeftBit, "FindSetLeftBit", 0, makeArgs(tObj, tObj), 0},
	{OpFindSetRightBit, "FindSetRightBit", 0, makeArgs(tObj, tObj), 0},
	{OpDerefOf, "DerefOf", 0, makeArgs(tObj), 0},
	{OpConcatRes, "ConcatRes", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpMod, "Mod", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpNotify, "Notify", 0, makeArgs(tObj, tObj), 0},
	{OpSizeOf, "SizeOf", 0, makeArgs(tObj), 0},
	{OpIndex, "Index", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpMatch, "Match", 0, makeArgs(tObj, tU8, tObj, tU8, tObj, tObj), 0},
	{OpCreateDWordField, "CreateDWordField", declares, makeArgs(tObj, tObj, tName), 2},
	{OpCreateWordField, "CreateWordField", declares, makeArgs(tObj, tObj, tName), 2},
	{OpCreateByteField, "CreateByteField", declares, makeArgs(tObj, tObj, tName), 2},
	{OpCreateBitField, "CreateBitField", declares, makeArgs(tObj, tObj, tName), 2},
	{OpObjectType, "ObjectType", 0, makeArgs(tObj), 0},
	{OpCreateQWordField, "CreateQWordField", declares, makeArgs(tObj, tObj, tName), 2},
	{OpLand, "Land", 0, makeArgs(tObj, tObj), 0},
	{OpLor, "Lor", 0, makeArgs(tObj, tObj), 0},
	{OpLnot, "Lnot", 0, makeArgs(tObj), 0},
	{OpLEqual, "LEqual", 0, makeArgs(tObj, tObj), 0},
	{OpLGreater, "LGreater", 0, makeArgs(tObj, tObj), 0},
	{OpLLess, "LLess", 0, makeArgs(tObj, tObj), 0},
	{OpToBuffer, "ToBuffer", 0, makeArgs(tObj, tObj), 0},
	{OpToDecimalString, "ToDecimalString", 0, makeArgs(tObj, tObj), 0},
	{OpToHexString, "ToHexString", 0, makeArgs(tObj, tObj), 0},
	{OpToInteger, "ToInteger", 0, makeArgs(tObj, tObj), 0},
	{OpToString, "ToString", 0, makeArgs(tObj, tObj, tObj), 0},
	{OpCopyObject, "CopyObject", 0, makeArgs(tObj, tObj), 0},
	{OpMid, "Mid", 0, makeArgs(tObj, tObj, tObj, tObj), 0},
	{OpContinue, "Continue", 0, makeArgs(), 0},
	{OpIf, "If", withPkgLen | withChildren, makeArgs(tObj), 0},
	{OpElse, "Else", withPkgLen | withChildren, makeArgs(), 0},
	{OpWhile, "While", withPkgLen | withChildren, makeArgs(tObj), 0},
	{OpNoop, "Noop", 0, makeArgs(), 0},
	{OpReturn, "Return", 0, makeArgs(tObj), 0},
	{OpBreak, "Break", 0, makeArgs(), 0},
	{OpBreakPoint, "BreakPoint", 0, makeArgs(), 0},
	{OpOnes, "Ones", 0, makeArgs(), 0},
	// Extended opcodes
	{OpMutex, "Mutex", declares, makeArgs(tName, tU8), 0},
	{OpEvent, "Event", declares, makeArgs(tName), 0},
	{OpCondRefOf, "CondRefOf", 0, makeArgs(tObj, tObj), 0},
	{OpCreateField, "CreateField", declares, makeArgs(tObj, tObj, tObj, tName), 3},
	{OpLoadTable, "LoadTable", 0, makeArgs(tObj, tObj, tObj, tObj, tObj, tObj), 0},
	{OpLoad, "Load", 0, makeArgs(tObj, tObj), 0},
	{OpStall, "Stall", 0, makeArgs(tObj), 0},
	{OpSleep, "Sleep", 0, makeArgs(tObj), 0},
	{OpAcquire, "Acquire", 0, makeArgs(tObj, tU16), 0},
	{OpSignal, "Signal", 0, makeArgs(tObj), 0},
	{OpWait, "Wait", 0, makeArgs(tObj, tObj), 0},
	{OpReset, "Reset", 0, makeArgs(tObj), 0},
	{OpRelease, "Release", 0, makeArgs(tObj), 0},
	{OpFromBCD, "FromBCD", 0, makeArgs(tObj, tObj), 0},
	{OpToBCD, "ToBCD", 0, makeArgs(tObj, tObj), 0},
	{OpUnload, "Unload", 0, makeArgs(tObj), 0},
	{OpRevision, "Revision", 0, makeArgs(), 0},
	{OpDebug, "Debug", 0, makeArgs(), 0},
	{OpFatal, "Fatal", 0, makeArgs(tU8, tU32, tObj), 0},
	{OpTimer, "Timer", 0, makeArgs(), 0},
	{OpOpRegion, "OpRegion", declares, makeArgs(tName, tU8, tObj, tObj), 0},
	{OpField, "Field", withPkgLen | withFields, makeArgs(tName, tU8), 0},
	{OpDevice, "Device", withPkgLen | withChildren | declares, makeArgs(tName), 0},
	{OpProcessor, "Processor", withPkgLen | withChildren | declares, makeArgs(tName, tU8, tU32, tU8), 0},
	{OpPowerRes, "PowerRes", withPkgLen | withChildren | declares, makeArgs(tName, tU8, tU16), 0},
	{OpThermalZone, "ThermalZone", withPkgLen | withChildren | declares, makeArgs(tName), 0},
	{OpIndexField, "IndexField", withPkgLen | withFields, makeArgs(tName, tName, tU8), 0},
	{OpBankField, "BankField", withPkgLen | withFields, makeArgs(tName, tName, tObj, tU8), 0},
	{OpDataRegion, "DataRegion", declares, makeArgs(tName, tObj, tObj, tObj), 0},
}

// fieldEncodingTable contains the encodings of the elements of a field list.
// The first four entries are indexed by their lead byte.
var fieldEncodingTable = []ByteEncoding{
	{OpIntReservedField, "ReservedField", AttrIsFieldElement, makeArgs(tFieldLen), 0},
	{OpIntAccessField, "AccessField", AttrIsFieldElement, makeArgs(tU8, tU8), 0},
	{OpIntConnectField, "ConnectField", AttrIsFieldElement, makeArgs(tObj), 0},
	{OpIntExtAccessField, "ExtAccessField", AttrIsFieldElement, makeArgs(tU8, tU8, tU8), 0},
	{OpIntNamedField, "NamedField", AttrIsFieldElement | declares, makeArgs(tName, tFieldLen), 0},
}

var (
	nameStringEncoding = ByteEncoding{OpIntNamePath, "NamePath", AttrIsNameChar, makeArgs(), 0}

	methodInvocationEncoding = ByteEncoding{OpIntMethodInvocation, "MethodInvocation", AttrHasChildObjects, makeArgs(tName), 0}

	namedFieldEncoding = &fieldEncodingTable[len(fieldEncodingTable)-1]
)

var (
	opcodeMap         [256]*ByteEncoding
	extendedOpcodeMap [256]*ByteEncoding
	opcodeNames       = make(map[Opcode]string)
)

func init() {
	for i := range encodingTable {
		enc := &encodingTable[i]
		if enc.op.IsExtended() {
			extendedOpcodeMap[byte(enc.op)] = enc
		} else {
			opcodeMap[byte(enc.op)] = enc
		}
		opcodeNames[enc.op] = enc.name
	}

	for _, ch := range []byte{rootChar, parentPrefixChar, dualNamePrefix, multiNamePrefix, '_'} {
		opcodeMap[ch] = &nameStringEncoding
	}
	for ch := 'A'; ch <= 'Z'; ch++ {
		opcodeMap[ch] = &nameStringEncoding
	}

	for i := range fieldEncodingTable {
		opcodeNames[fieldEncodingTable[i].op] = fieldEncodingTable[i].name
	}
	opcodeNames[nameStringEncoding.op] = nameStringEncoding.name
	opcodeNames[methodInvocationEncoding.op] = methodInvocationEncoding.name
}

// String returns the ASL mnemonic for op.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}

// EncodingFor looks up the encoding for the opcode at the start of b. It
// returns nil if b does not start with a known opcode or with the first
// byte of a NameString, or if b is too short to tell.
func EncodingFor(b []byte) *ByteEncoding {
	if len(b) == 0 {
		return nil
	}

	if b[0] != extOpPrefix {
		return opcodeMap[b[0]]
	}

	if len(b) < 2 {
		return nil
	}
	return extendedOpcodeMap[b[1]]
}

// fieldEncodingFor looks up the field element encoding selected by lead.
func fieldEncodingFor(lead byte) *ByteEncoding {
	switch {
	case int(lead) < len(fieldEncodingTable)-1:
		return &fieldEncodingTable[lead]
	case isLeadNameChar(lead):
		return namedFieldEncoding
	}
	return nil
}
