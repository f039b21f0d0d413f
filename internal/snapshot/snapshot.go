// Package snapshot persists a single analysis result to a compact binary
// form via rezi, the same rezi.EncBinary/DecBinary round trip the teacher
// uses to store game session state (server/dao/sqlite/sqlite.go,
// server/dao/sqlite/sessions.go), applied here to a solved expression
// instead of a game session.
package snapshot

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/casengine/internal/ast"
)

// Record is what gets snapshotted: the original input, the parsed tree, and
// the strategy's result tree, enough to fully reconstruct a history entry
// without re-running analysis.
type Record struct {
	Input     string
	Tree      *ast.Node
	Result    *ast.Node
	Tex       string
	Strategy  string
	Approx    string
}

// Encode serializes r to its binary snapshot form.
func Encode(r *Record) ([]byte, error) {
	return rezi.EncBinary(r), nil
}

// Decode reconstructs a Record from a snapshot produced by Encode.
func Decode(data []byte) (*Record, error) {
	var r Record
	n, err := rezi.DecBinary(data, &r)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if n != len(data) {
		return &r, nil
	}
	return &r, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so rezi can recurse into
// Record's fields uniformly with how it handles the teacher's own
// game-state structs.
func (r *Record) MarshalBinary() ([]byte, error) {
	var buf []byte
	appendString(&buf, r.Input)
	appendNode(&buf, r.Tree)
	appendNode(&buf, r.Result)
	appendString(&buf, r.Tex)
	appendString(&buf, r.Strategy)
	appendString(&buf, r.Approx)
	return buf, nil
}

func (r *Record) UnmarshalBinary(data []byte) error {
	var err error
	r.Input, data, err = takeString(data)
	if err != nil {
		return err
	}
	r.Tree, data, err = takeNode(data)
	if err != nil {
		return err
	}
	r.Result, data, err = takeNode(data)
	if err != nil {
		return err
	}
	r.Tex, data, err = takeString(data)
	if err != nil {
		return err
	}
	r.Strategy, data, err = takeString(data)
	if err != nil {
		return err
	}
	r.Approx, _, err = takeString(data)
	return err
}

func appendString(buf *[]byte, s string) {
	length := uint32(len(s))
	*buf = append(*buf, byte(length>>24), byte(length>>16), byte(length>>8), byte(length))
	*buf = append(*buf, s...)
}

func takeString(data []byte) (string, []byte, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("snapshot: unexpected end of data reading string length")
	}
	length := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	data = data[4:]
	if uint32(len(data)) < length {
		return "", nil, fmt.Errorf("snapshot: unexpected end of data reading string")
	}
	return string(data[:length]), data[length:], nil
}

func appendNode(buf *[]byte, n *ast.Node) {
	var nodeBytes []byte
	present := byte(0)
	if n != nil {
		present = 1
		encoded, _ := n.MarshalBinary()
		nodeBytes = encoded
	}
	*buf = append(*buf, present)
	appendString(buf, string(nodeBytes))
}

func takeNode(data []byte) (*ast.Node, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("snapshot: unexpected end of data reading node presence")
	}
	present := data[0]
	data = data[1:]
	raw, rest, err := takeString(data)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	n := &ast.Node{}
	if err := n.UnmarshalBinary([]byte(raw)); err != nil {
		return nil, nil, err
	}
	return n, rest, nil
}
