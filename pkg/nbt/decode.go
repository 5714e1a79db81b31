package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// maxDecodeDepth bounds container nesting while decoding. Save files are
// untrusted input; a crafted payload must not be able to blow the stack.
const maxDecodeDepth = 512

// maxPrealloc caps the capacity reserved up front for a claimed array or
// list length. The length field is attacker-controlled; a crafted file must
// not force a huge allocation before its data fails to materialize. Longer
// real data just grows the slice as it reads.
const maxPrealloc = 1 << 16

// Read decodes an uncompressed binary NBT payload. The payload must start
// with a named compound tag (the name is discarded, as every caller in this
// codebase roots at an anonymous chunk/player compound). Unknown tag IDs are
// an error, not a skip: they mean the payload is not NBT.
func Read(r io.Reader) (Compound, error) {
	d := &decoder{r: bufio.NewReader(r)}
	tag, err := d.readTag()
	if err != nil {
		return nil, err
	}
	if tag != TagCompound {
		return nil, fmt.Errorf("nbt: root tag is %s, want Compound", tag)
	}
	if _, err := d.readString(); err != nil {
		return nil, fmt.Errorf("nbt: root name: %w", err)
	}
	v, err := d.readValue(TagCompound, 0)
	if err != nil {
		return nil, err
	}
	return v.(Compound), nil
}

type decoder struct {
	r   *bufio.Reader
	buf [8]byte
}

func (d *decoder) readTag() (Tag, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return TagEnd, fmt.Errorf("nbt: read tag: %w", err)
	}
	if b > byte(TagLongArray) {
		return TagEnd, fmt.Errorf("nbt: unknown tag id %d", b)
	}
	return Tag(b), nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	buf := d.buf[:n]
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("nbt: short read: %w", err)
	}
	return buf, nil
}

func (d *decoder) readInt16() (int16, error) {
	buf, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf)), nil
}

func (d *decoder) readInt32() (int32, error) {
	buf, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

func (d *decoder) readInt64() (int64, error) {
	buf, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readInt16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("nbt: negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", fmt.Errorf("nbt: short string read: %w", err)
	}
	return string(buf), nil
}

func (d *decoder) readLen() (int, error) {
	n, err := d.readInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("nbt: negative length %d", n)
	}
	return int(n), nil
}

func (d *decoder) readValue(tag Tag, depth int) (Value, error) {
	if depth > maxDecodeDepth {
		return nil, fmt.Errorf("nbt: nesting deeper than %d", maxDecodeDepth)
	}
	switch tag {
	case TagByte:
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("nbt: read byte: %w", err)
		}
		return Byte(b), nil
	case TagShort:
		n, err := d.readInt16()
		if err != nil {
			return nil, err
		}
		return Short(n), nil
	case TagInt:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case TagLong:
		n, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return Long(n), nil
	case TagFloat:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(uint32(n))), nil
	case TagDouble:
		n, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(uint64(n))), nil
	case TagString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TagByteArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		arr := make(ByteArray, 0, min(n, maxPrealloc))
		buf := make([]byte, min(n, 4096))
		for read := 0; read < n; {
			k := min(n-read, len(buf))
			if _, err := io.ReadFull(d.r, buf[:k]); err != nil {
				return nil, fmt.Errorf("nbt: short byte array read: %w", err)
			}
			for _, b := range buf[:k] {
				arr = append(arr, int8(b))
			}
			read += k
		}
		return arr, nil
	case TagIntArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, 0, min(n, maxPrealloc))
		for i := 0; i < n; i++ {
			v, err := d.readInt32()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case TagLongArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, 0, min(n, maxPrealloc))
		for i := 0; i < n; i++ {
			v, err := d.readInt64()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case TagList:
		elemTag, err := d.readTag()
		if err != nil {
			return nil, err
		}
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		if elemTag == TagEnd && n > 0 {
			return nil, fmt.Errorf("nbt: non-empty list of End tags")
		}
		list := make(List, 0, min(n, maxPrealloc))
		for i := 0; i < n; i++ {
			el, err := d.readValue(elemTag, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, el)
		}
		return list, nil
	case TagCompound:
		compound := Compound{}
		for {
			childTag, err := d.readTag()
			if err != nil {
				return nil, err
			}
			if childTag == TagEnd {
				return compound, nil
			}
			name, err := d.readString()
			if err != nil {
				return nil, err
			}
			child, err := d.readValue(childTag, depth+1)
			if err != nil {
				return nil, err
			}
			compound[name] = child
		}
	}
	return nil, fmt.Errorf("nbt: cannot decode tag %s", tag)
}
