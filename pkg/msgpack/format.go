// Package msgpack implements the MessagePack wire model: format codes, the
// token-level codec, and an owned dynamic value tree.
package msgpack

import "fmt"

// MessagePack format codes, as listed in the format specification.
// Single-byte ranges (fixint, fixmap, fixarray, fixstr) are identified by
// their first and last code.
const (
	// Positive fixint: 0x00 - 0x7f, value embedded in the code byte.
	formatPosFixintMax byte = 0x7f

	// Fixmap: 0x80 - 0x8f, length embedded in the low nibble.
	formatFixmapMin byte = 0x80
	formatFixmapMax byte = 0x8f

	// Fixarray: 0x90 - 0x9f, length embedded in the low nibble.
	formatFixarrayMin byte = 0x90
	formatFixarrayMax byte = 0x9f

	// Fixstr: 0xa0 - 0xbf, length embedded in the low five bits.
	formatFixstrMin byte = 0xa0
	formatFixstrMax byte = 0xbf

	formatNil      byte = 0xc0
	formatReserved byte = 0xc1 // never used by the format
	formatFalse    byte = 0xc2
	formatTrue     byte = 0xc3

	formatBin8  byte = 0xc4 // length as uint8
	formatBin16 byte = 0xc5 // length as uint16
	formatBin32 byte = 0xc6 // length as uint32

	formatExt8  byte = 0xc7 // length as uint8, then type byte
	formatExt16 byte = 0xc8 // length as uint16, then type byte
	formatExt32 byte = 0xc9 // length as uint32, then type byte

	formatFloat32 byte = 0xca
	formatFloat64 byte = 0xcb

	formatUint8  byte = 0xcc
	formatUint16 byte = 0xcd
	formatUint32 byte = 0xce
	formatUint64 byte = 0xcf

	formatInt8  byte = 0xd0
	formatInt16 byte = 0xd1
	formatInt32 byte = 0xd2
	formatInt64 byte = 0xd3

	formatFixext1  byte = 0xd4 // type byte, then 1 payload byte
	formatFixext2  byte = 0xd5 // type byte, then 2 payload bytes
	formatFixext4  byte = 0xd6 // type byte, then 4 payload bytes
	formatFixext8  byte = 0xd7 // type byte, then 8 payload bytes
	formatFixext16 byte = 0xd8 // type byte, then 16 payload bytes

	formatStr8  byte = 0xd9 // length as uint8
	formatStr16 byte = 0xda // length as uint16
	formatStr32 byte = 0xdb // length as uint32

	formatArray16 byte = 0xdc
	formatArray32 byte = 0xdd

	formatMap16 byte = 0xde
	formatMap32 byte = 0xdf

	// Negative fixint: 0xe0 - 0xff, value is the code byte as int8 (-32..-1).
	formatNegFixintMin byte = 0xe0
)

// FormatName returns a human-readable name for a format code byte.
func FormatName(code byte) string {
	switch {
	case code <= formatPosFixintMax:
		return "positive fixint"
	case code >= formatFixmapMin && code <= formatFixmapMax:
		return "fixmap"
	case code >= formatFixarrayMin && code <= formatFixarrayMax:
		return "fixarray"
	case code >= formatFixstrMin && code <= formatFixstrMax:
		return "fixstr"
	case code >= formatNegFixintMin:
		return "negative fixint"
	}
	switch code {
	case formatNil:
		return "nil"
	case formatReserved:
		return "reserved"
	case formatFalse:
		return "false"
	case formatTrue:
		return "true"
	case formatBin8:
		return "bin 8"
	case formatBin16:
		return "bin 16"
	case formatBin32:
		return "bin 32"
	case formatExt8:
		return "ext 8"
	case formatExt16:
		return "ext 16"
	case formatExt32:
		return "ext 32"
	case formatFloat32:
		return "float 32"
	case formatFloat64:
		return "float 64"
	case formatUint8:
		return "uint 8"
	case formatUint16:
		return "uint 16"
	case formatUint32:
		return "uint 32"
	case formatUint64:
		return "uint 64"
	case formatInt8:
		return "int 8"
	case formatInt16:
		return "int 16"
	case formatInt32:
		return "int 32"
	case formatInt64:
		return "int 64"
	case formatFixext1:
		return "fixext 1"
	case formatFixext2:
		return "fixext 2"
	case formatFixext4:
		return "fixext 4"
	case formatFixext8:
		return "fixext 8"
	case formatFixext16:
		return "fixext 16"
	case formatStr8:
		return "str 8"
	case formatStr16:
		return "str 16"
	case formatStr32:
		return "str 32"
	case formatArray16:
		return "array 16"
	case formatArray32:
		return "array 32"
	case formatMap16:
		return "map 16"
	case formatMap32:
		return "map 32"
	default:
		return fmt.Sprintf("unknown(0x%02x)", code)
	}
}
