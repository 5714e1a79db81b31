// Package nbt implements the in-memory NBT data model shared by the whole
// scanner: a tagged value tree, a binary decoder, SNBT parsing and canonical
// serialization, and a structural subset matcher.
package nbt

import "fmt"

// Tag identifies the concrete type of an NBT value, matching the tag IDs of
// the binary format.
type Tag byte

const (
	TagEnd Tag = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

func (t Tag) String() string {
	switch t {
	case TagEnd:
		return "End"
	case TagByte:
		return "Byte"
	case TagShort:
		return "Short"
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagByteArray:
		return "ByteArray"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagCompound:
		return "Compound"
	case TagIntArray:
		return "IntArray"
	case TagLongArray:
		return "LongArray"
	}
	return fmt.Sprintf("Tag(%d)", byte(t))
}

// Value is one node of a decoded NBT tree. The twelve concrete types below
// are the only implementations; code switching on a Value should handle all
// of them.
type Value interface {
	Tag() Tag
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	String    string
	ByteArray []int8
	IntArray  []int32
	LongArray []int64

	// List holds elements sharing a single tag; the decoder and the SNBT
	// parser both enforce homogeneity, the rest of the package relies on it.
	List []Value

	// Compound maps unique keys to values. Key order carries no meaning.
	Compound map[string]Value
)

func (Byte) Tag() Tag      { return TagByte }
func (Short) Tag() Tag     { return TagShort }
func (Int) Tag() Tag       { return TagInt }
func (Long) Tag() Tag      { return TagLong }
func (Float) Tag() Tag     { return TagFloat }
func (Double) Tag() Tag    { return TagDouble }
func (String) Tag() Tag    { return TagString }
func (ByteArray) Tag() Tag { return TagByteArray }
func (IntArray) Tag() Tag  { return TagIntArray }
func (LongArray) Tag() Tag { return TagLongArray }
func (List) Tag() Tag      { return TagList }
func (Compound) Tag() Tag  { return TagCompound }

// GetCompound returns c[key] as a Compound, or nil when the key is absent or
// holds a different type.
func (c Compound) GetCompound(key string) Compound {
	v, _ := c[key].(Compound)
	return v
}

// GetList returns c[key] as a List, or nil when the key is absent or holds a
// different type.
func (c Compound) GetList(key string) List {
	v, _ := c[key].(List)
	return v
}

// GetString returns c[key] as a string, with ok false when the key is absent
// or holds a different type.
func (c Compound) GetString(key string) (string, bool) {
	v, ok := c[key].(String)
	return string(v), ok
}

// GetInt returns c[key] as an int32, with ok false when the key is absent or
// holds a different type.
func (c Compound) GetInt(key string) (int32, bool) {
	v, ok := c[key].(Int)
	return int32(v), ok
}
