package components

// TileSize is the world size of one tile.
const TileSize = 8

// Position is a building's centre in world units.
type Position struct {
	X, Y float32
}

// TilePosition returns the centre of a size x size block placed at tile
// (tx, ty).
func TilePosition(tx, ty, size int) Position {
	offset := float32(0)
	if size%2 == 0 {
		offset = TileSize / 2
	}
	return Position{
		X: float32(tx*TileSize) + offset,
		Y: float32(ty*TileSize) + offset,
	}
}

// DistSq returns the squared distance between two positions.
func (p Position) DistSq(o Position) float32 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}
