package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/markers"
	"github.com/plus3/mapview/tilemap"
)

var (
	background    = color.RGBA{24, 26, 30, 255}
	locationColor = color.RGBA{240, 200, 80, 255}
	materialColor = color.RGBA{120, 200, 240, 255}
)

type tileView struct {
	*tilemap.TileSprite
	*tilemap.Visibility
}

type markerView struct {
	*markers.Marker
	*tilemap.Visibility
}

// Renderer draws from storage without changing it, so it is safe to call
// from ebiten's Draw.
type Renderer struct {
	Camera  ecs.Singleton[tilemap.CameraState]
	Tiles   ecs.Query[tileView]
	Markers ecs.Query[markerView]

	textures *TextureCache[*ebiten.Image]
	tiles    []*tilemap.TileSprite
	markers  []*markers.Marker
}

func NewRenderer(storage *ecs.Storage, budgetBytes int64) (*Renderer, error) {
	textures, err := NewTextureCache(budgetBytes, func(img image.Image) *ebiten.Image {
		return ebiten.NewImageFromImage(img)
	}, (*ebiten.Image).Dispose)
	if err != nil {
		return nil, err
	}
	r := &Renderer{textures: textures}
	r.Camera.Init(storage)
	r.Tiles.Init(storage)
	r.Markers.Init(storage)
	return r, nil
}

func (r *Renderer) Textures() *TextureCache[*ebiten.Image] {
	return r.textures
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	r.textures.Sweep()
	screen.Fill(background)

	cam := r.Camera.Get()
	if cam == nil {
		return
	}
	b := screen.Bounds()
	window := tilemap.Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}

	r.Tiles.Execute()
	r.tiles = r.tiles[:0]
	for tile := range r.Tiles.Values() {
		if tile.Visible {
			r.tiles = append(r.tiles, tile.TileSprite)
		}
	}
	for _, s := range TileSprites(r.tiles, cam, window) {
		r.drawSprite(screen, s)
	}

	r.Markers.Execute()
	r.markers = r.markers[:0]
	for m := range r.Markers.Values() {
		if m.Visible {
			r.markers = append(r.markers, m.Marker)
		}
	}
	sprites, dots := MarkerSprites(r.markers, cam, window)
	for _, d := range dots {
		c := locationColor
		if d.Kind == markers.KindMaterial {
			c = materialColor
		}
		vector.DrawFilledCircle(screen, float32(d.Center.X), float32(d.Center.Y), float32(d.Radius), c, true)
	}
	for _, s := range sprites {
		r.drawSprite(screen, s)
	}
}

func (r *Renderer) drawSprite(screen *ebiten.Image, s Sprite) {
	tex, ok := r.textures.Texture(s.Asset)
	if !ok {
		return
	}
	tb := tex.Bounds()
	size := s.Dst.Size()
	opts := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	opts.GeoM.Scale(size.X/float64(tb.Dx()), size.Y/float64(tb.Dy()))
	opts.GeoM.Translate(s.Dst.Min.X, s.Dst.Min.Y)
	screen.DrawImage(tex, opts)
}

func (r *Renderer) Close() {
	r.textures.Close()
}
