package tilemap

// IndexRange is an inclusive run of tile indices on one axis.
type IndexRange struct {
	Min, Max uint32
}

func (r IndexRange) Contains(i uint32) bool {
	return i >= r.Min && i <= r.Max
}

func (r IndexRange) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return int(r.Max-r.Min) + 1
}

// VisibleRanges returns the tile index ranges covered by a viewport centred
// on pos with the given half extent. Tile rows are indexed from the top, so
// the vertical axis is indexed on -y.
func VisibleRanges(level Level, pos, half Vec2) (xs, ys IndexRange) {
	xs = IndexRange{
		Min: level.Index(pos.X - half.X),
		Max: level.Index(pos.X + half.X),
	}
	ys = IndexRange{
		Min: level.Index(-pos.Y - half.Y),
		Max: level.Index(-pos.Y + half.Y),
	}
	return xs, ys
}

// TileVisible decides whether a requested tile is drawn. Level 0 is the
// backdrop and every level coarser than the current one is shown without a
// range check; tiles of the current (or a finer) level must be in range.
func TileVisible(key TileKey, mapType MapType, level Level, xs, ys IndexRange) bool {
	if key.MapType != mapType {
		return false
	}
	return key.Level == MinLevel || key.Level < level || (xs.Contains(key.X) && ys.Contains(key.Y))
}
