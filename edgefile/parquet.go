package edgefile

import (
	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/stream"
)

// parquetGoRoutines is the parallelism handed to the parquet marshallers.
const parquetGoRoutines int64 = 4

// EdgeRow is the parquet schema of one edge.
type EdgeRow struct {
	Src int64 `parquet:"name=src, type=INT64"`
	Dst int64 `parquet:"name=dst, type=INT64"`
}

// WriteParquet streams the remaining content of es into a parquet file at
// path. The read cursor is consumed; rewind first for a full dump.
func WriteParquet(path string, es *stream.EdgeStream) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrap(err, "edgefile: create parquet")
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(EdgeRow), parquetGoRoutines)
	if err != nil {
		return errors.Wrap(err, "edgefile: parquet writer")
	}
	for !es.Empty() {
		e := es.Peek()
		es.Next()
		if err = pw.Write(EdgeRow{Src: int64(e.U), Dst: int64(e.V)}); err != nil {
			return errors.Wrap(err, "edgefile: parquet write")
		}
	}

	return errors.Wrap(pw.WriteStop(), "edgefile: parquet stop")
}

// ReadParquet loads a parquet edge file into a fresh stream, consumed and
// rewound. Rows are canonicalised on the way in.
func ReadParquet(path string) (*stream.EdgeStream, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, errors.Wrap(err, "edgefile: open parquet")
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(EdgeRow), parquetGoRoutines)
	if err != nil {
		return nil, errors.Wrap(err, "edgefile: parquet reader")
	}
	defer pr.ReadStop()

	es := stream.NewEdgeStream()
	left := int(pr.GetNumRows())
	for left > 0 {
		chunk := left
		if chunk > 1<<14 {
			chunk = 1 << 14
		}
		rows := make([]EdgeRow, chunk)
		if err = pr.Read(&rows); err != nil {
			return nil, errors.Wrap(err, "edgefile: parquet read")
		}
		for _, row := range rows {
			es.Push(core.NewEdge(core.Node(row.Src), core.Node(row.Dst)))
		}
		left -= chunk
	}
	es.Consume()

	return es, nil
}
