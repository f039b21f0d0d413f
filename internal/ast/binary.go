package ast

import (
	"encoding/binary"
	"fmt"
)

// MarshalBinary and UnmarshalBinary let a Node round-trip through
// rezi.EncBinary/DecBinary (see internal/snapshot), the same
// encoding.BinaryMarshaler pairing the teacher hands its own game state to
// rezi with (server/dao/sqlite/sqlite.go's rezi.EncBinary(g)/DecBinary).
//
// The wire format is a depth-first pre-order walk: one tag byte per node
// (0xFF for a nil child), followed by that Kind's fixed fields, each string
// field length-prefixed as a uint32.

func (n *Node) MarshalBinary() ([]byte, error) {
	var buf []byte
	writeNode(&buf, n)
	return buf, nil
}

func (n *Node) UnmarshalBinary(data []byte) error {
	rest, parsed, err := readNode(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("ast: %d trailing bytes after decoding node", len(rest))
	}
	if parsed == nil {
		return fmt.Errorf("ast: top-level node cannot be nil")
	}
	*n = *parsed
	return nil
}

const nilTag = 0xFF

func writeNode(buf *[]byte, n *Node) {
	if n == nil {
		*buf = append(*buf, nilTag)
		return
	}
	*buf = append(*buf, byte(n.Kind))
	switch n.Kind {
	case KindNumber:
		writeString(buf, n.NumberValue)
	case KindSymbol:
		writeString(buf, n.Name)
	case KindUnitQuantity:
		writeNode(buf, n.Magnitude)
		writeString(buf, n.Unit)
	case KindUnary:
		writeString(buf, n.Op)
		writeNode(buf, n.Operand)
	case KindBinary:
		writeString(buf, n.Op)
		writeNode(buf, n.Left)
		writeNode(buf, n.Right)
	case KindCall:
		writeString(buf, n.Name)
		writeUint32(buf, uint32(len(n.Args)))
		for _, a := range n.Args {
			writeNode(buf, a)
		}
	case KindArrow:
		writeNode(buf, n.From)
		writeNode(buf, n.To)
	case KindList:
		writeUint32(buf, uint32(len(n.Items)))
		for _, a := range n.Items {
			writeNode(buf, a)
		}
	}
}

func readNode(data []byte) ([]byte, *Node, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("ast: unexpected end of data reading node tag")
	}
	tag := data[0]
	data = data[1:]
	if tag == nilTag {
		return data, nil, nil
	}

	n := &Node{Kind: Kind(tag)}
	var err error
	switch n.Kind {
	case KindNumber:
		n.NumberValue, data, err = readString(data)
	case KindSymbol:
		n.Name, data, err = readString(data)
	case KindUnitQuantity:
		data, n.Magnitude, err = readNode(data)
		if err == nil {
			n.Unit, data, err = readString(data)
		}
	case KindUnary:
		n.Op, data, err = readString(data)
		if err == nil {
			data, n.Operand, err = readNode(data)
		}
	case KindBinary:
		n.Op, data, err = readString(data)
		if err == nil {
			data, n.Left, err = readNode(data)
		}
		if err == nil {
			data, n.Right, err = readNode(data)
		}
	case KindCall:
		n.Name, data, err = readString(data)
		var count uint32
		if err == nil {
			count, data, err = readUint32(data)
		}
		for i := uint32(0); err == nil && i < count; i++ {
			var child *Node
			data, child, err = readNode(data)
			n.Args = append(n.Args, child)
		}
	case KindArrow:
		data, n.From, err = readNode(data)
		if err == nil {
			data, n.To, err = readNode(data)
		}
	case KindList:
		var count uint32
		count, data, err = readUint32(data)
		for i := uint32(0); err == nil && i < count; i++ {
			var child *Node
			data, child, err = readNode(data)
			n.Items = append(n.Items, child)
		}
	default:
		err = fmt.Errorf("ast: unknown node kind tag %d", tag)
	}
	if err != nil {
		return nil, nil, err
	}
	return data, n, nil
}

func writeUint32(buf *[]byte, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	*buf = append(*buf, tmp[:]...)
}

func readUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("ast: unexpected end of data reading uint32")
	}
	return binary.BigEndian.Uint32(data[:4]), data[4:], nil
}

func writeString(buf *[]byte, s string) {
	writeUint32(buf, uint32(len(s)))
	*buf = append(*buf, s...)
}

func readString(data []byte) (string, []byte, error) {
	n, rest, err := readUint32(data)
	if err != nil {
		return "", nil, err
	}
	if uint32(len(rest)) < n {
		return "", nil, fmt.Errorf("ast: unexpected end of data reading string")
	}
	return string(rest[:n]), rest[n:], nil
}
