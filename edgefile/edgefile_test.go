package edgefile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/edgefile"
	"github.com/katalvlaran/emswap/stream"
)

func sample() []core.Edge {
	return []core.Edge{
		core.NewEdge(1, 3),
		core.NewEdge(2, 4),
		core.NewEdge(2, 4),
		core.NewEdge(3, 3),
		core.NewEdge(-7, 12), // negative ids are legal in the wire format
	}
}

// TestBinaryRoundTrip writes and re-reads the flat binary format.
func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.bin")

	require.NoError(t, edgefile.WriteBinary(path, stream.FromEdges(sample())))
	es, err := edgefile.ReadBinary(path)
	require.NoError(t, err)
	require.Equal(t, sample(), es.Edges())
}

// TestBinaryReadMissing surfaces the open failure.
func TestBinaryReadMissing(t *testing.T) {
	_, err := edgefile.ReadBinary(filepath.Join(t.TempDir(), "absent.bin"))
	require.Error(t, err)
}

// TestParquetRoundTrip writes and re-reads the parquet interchange format.
func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.parquet")

	require.NoError(t, edgefile.WriteParquet(path, stream.FromEdges(sample())))
	es, err := edgefile.ReadParquet(path)
	require.NoError(t, err)
	require.Equal(t, sample(), es.Edges())
}
