package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/tilemap"
)

// AuditReport lists the gaps of an asset store for one map type.
type AuditReport struct {
	MapType  tilemap.MapType
	Expected int
	Missing  []tilemap.TileKey
	// Invalid holds paths under tiles/ that do not name a tile.
	Invalid []string
}

// AuditTiles checks every tile of levels [minLevel, maxLevel]. Sources that
// can list their contents are checked from the listing; others are probed
// one read per tile.
func AuditTiles(source assets.Source, mt tilemap.MapType, minLevel, maxLevel tilemap.Level) (*AuditReport, error) {
	if !mt.Valid() || !maxLevel.Valid() || minLevel > maxLevel {
		return nil, fmt.Errorf("audit: bad range %s levels %d..%d", mt, minLevel, maxLevel)
	}

	report := &AuditReport{MapType: mt}
	present, err := listTiles(source, report)
	if err != nil {
		return nil, err
	}

	for level := minLevel; level <= maxLevel; level++ {
		for _, key := range tilemap.LevelKeys(mt, level) {
			report.Expected++
			ok, err := hasTile(source, present, key)
			if err != nil {
				return nil, err
			}
			if !ok {
				report.Missing = append(report.Missing, key)
			}
		}
	}
	return report, nil
}

func listTiles(source assets.Source, report *AuditReport) (map[string]bool, error) {
	lister, ok := source.(assets.Lister)
	if !ok {
		return nil, nil
	}
	paths, err := lister.Paths()
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}

	present := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "tiles/") {
			continue
		}
		if _, err := tilemap.ParseTilePath(p); err != nil {
			report.Invalid = append(report.Invalid, p)
			continue
		}
		present[p] = true
	}
	return present, nil
}

func hasTile(source assets.Source, present map[string]bool, key tilemap.TileKey) (bool, error) {
	if present != nil {
		return present[key.Path()], nil
	}
	_, err := source.ReadAsset(key.Path())
	if errors.Is(err, assets.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
