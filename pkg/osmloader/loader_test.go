package osmloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixtureOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="52.0" lon="4.0"/>
  <node id="2" lat="52.0" lon="4.1"/>
  <node id="3" lat="52.1" lon="4.1"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="11">
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="12">
    <nd ref="3"/>
    <nd ref="99"/>
    <tag k="highway" v="primary"/>
  </way>
  <way id="13">
    <nd ref="1"/>
    <nd ref="3"/>
  </way>
</osm>
`

func writeFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(fixtureOSM), 0644))
	return path
}

func TestLoadFiltersImpassableWays(t *testing.T) {
	path := writeFixture(t, "map.osm")
	l := NewLoader(zap.NewNop())

	polylines, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	// way 11 is a footway, way 12 references a missing node, way 13 has
	// no highway tag; only way 10 survives
	require.Len(t, polylines, 1)
	require.Equal(t, "residential", polylines[0].Tag)
	require.Len(t, polylines[0].Points, 2)
	require.Equal(t, 4.0, polylines[0].Points[0].X, "x carries longitude")
	require.Equal(t, 52.0, polylines[0].Points[0].Y, "y carries latitude")
}

func TestLoadMultipleFiles(t *testing.T) {
	a := writeFixture(t, "a.osm")
	b := writeFixture(t, "b.osm")
	l := NewLoader(zap.NewNop())

	polylines, err := l.Load(context.Background(), a, b)
	require.NoError(t, err)
	require.Len(t, polylines, 2)
}

func TestLoadSkipsUnreadableFileInBatch(t *testing.T) {
	good := writeFixture(t, "good.osm")
	missing := filepath.Join(t.TempDir(), "missing.osm")
	l := NewLoader(zap.NewNop())

	polylines, err := l.Load(context.Background(), good, missing)
	require.NoError(t, err)
	require.Len(t, polylines, 1)
}

func TestLoadSingleFileErrors(t *testing.T) {
	l := NewLoader(zap.NewNop())

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.osm"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "map.txt")
	require.NoError(t, os.WriteFile(bad, []byte("not a map"), 0644))
	_, err = l.Load(context.Background(), bad)
	require.ErrorContains(t, err, "unsupported map file extension")
}
