package edgefile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/stream"
)

// recordSize is the on-disk width of one edge: two int64 node ids.
const recordSize = 16

// WriteBinary streams the remaining content of es into a binary edge file at
// path. The read cursor is consumed; rewind first for a full dump.
func WriteBinary(path string, es *stream.EdgeStream) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "edgefile: create")
	}
	w := bufio.NewWriter(f)
	var rec [recordSize]byte
	for !es.Empty() {
		e := es.Peek()
		es.Next()
		binary.LittleEndian.PutUint64(rec[:], uint64(e.U))
		binary.LittleEndian.PutUint64(rec[8:], uint64(e.V))
		if _, err = w.Write(rec[:]); err != nil {
			f.Close()

			return errors.Wrap(err, "edgefile: write")
		}
	}
	if err = w.Flush(); err != nil {
		f.Close()

		return errors.Wrap(err, "edgefile: flush")
	}

	return errors.Wrap(f.Close(), "edgefile: close")
}

// ReadBinary loads a binary edge file into a fresh stream, consumed and
// rewound, ready for the engine.
func ReadBinary(path string) (*stream.EdgeStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "edgefile: open")
	}
	defer f.Close()

	es := stream.NewEdgeStream()
	r := bufio.NewReader(f)
	var rec [recordSize]byte
	for {
		if _, err = io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF {
				break
			}

			return nil, errors.Wrap(err, "edgefile: read")
		}
		es.Push(core.Edge{
			U: core.Node(binary.LittleEndian.Uint64(rec[:])),
			V: core.Node(binary.LittleEndian.Uint64(rec[8:])),
		})
	}
	es.Consume()

	return es, nil
}
