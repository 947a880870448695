package app

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/tilemap"
)

// probeOnly hides the Lister implementation of the wrapped source.
type probeOnly struct {
	assets.Source
}

func TestAuditTiles(t *testing.T) {
	fsys := fstest.MapFS{
		"tiles/surface/0/0_0.jpg": {Data: []byte("x")},
		"tiles/surface/1/0_0.jpg": {Data: []byte("x")},
		"tiles/surface/1/1_1.jpg": {Data: []byte("x")},
		"tiles/surface/1/9_9.jpg": {Data: []byte("x")},
		"tiles/surface/1/readme":  {Data: []byte("x")},
		"icons/star.png":          {Data: []byte("x")},
	}
	want := []tilemap.TileKey{
		{MapType: tilemap.Surface, Level: 1, X: 1, Y: 0},
		{MapType: tilemap.Surface, Level: 1, X: 0, Y: 1},
	}

	listed, err := AuditTiles(assets.NewDirSource(fsys), tilemap.Surface, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, listed.Expected)
	assert.Equal(t, want, listed.Missing)
	assert.Equal(t, []string{"tiles/surface/1/9_9.jpg", "tiles/surface/1/readme"}, listed.Invalid)

	probed, err := AuditTiles(probeOnly{assets.NewDirSource(fsys)}, tilemap.Surface, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, want, probed.Missing)
	assert.Empty(t, probed.Invalid)

	_, err = AuditTiles(assets.NewDirSource(fsys), tilemap.Surface, 2, 1)
	assert.Error(t, err)
}
