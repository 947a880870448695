// Package markers loads points of interest for each map layer and keeps
// their overlay entities in step with the camera and the user's filters.
package markers

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/tilemap"
)

const (
	LocationIconPath = "icons/mainquest.png"
	MaterialIconPath = "icons/star.png"
)

type LocationIcon struct {
	URL    string `json:"url"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

type LayerMarker struct {
	// Coords is stored [y, x] relative to world axes.
	Coords    [2]float64 `json:"coords"`
	Elevation float64    `json:"elv"`
	ID        string     `json:"id"`
	Name      *string    `json:"name"`
}

// Position converts the stored coordinates into world space.
func (m LayerMarker) Position() tilemap.Vec2 {
	return tilemap.Vec2{X: m.Coords[1], Y: m.Coords[0]}
}

type LocationLayer struct {
	Icon    *LocationIcon `json:"icon"`
	Markers []LayerMarker `json:"markers"`
	MinZoom uint32        `json:"minZoom"`
	MaxZoom uint32        `json:"maxZoom"`
}

// UnmarshalJSON defaults an absent maxZoom to the finest level.
func (l *LocationLayer) UnmarshalJSON(data []byte) error {
	type plain LocationLayer
	layer := plain{MaxZoom: uint32(tilemap.MaxLevel)}
	if err := json.Unmarshal(data, &layer); err != nil {
		return err
	}
	*l = LocationLayer(layer)
	return nil
}

// IconPath is the asset path of the layer icon.
func (l LocationLayer) IconPath() string {
	if l.Icon == nil {
		return LocationIconPath
	}
	return "icons/" + l.Icon.URL
}

type Location struct {
	Name   string          `json:"name"`
	Source *string         `json:"source"`
	Layers []LocationLayer `json:"layers"`
}

type Material struct {
	Name   string       `json:"name"`
	Coords [][3]float64 `json:"markerCoords"`
}

// Catalog holds every marker definition, per map type.
type Catalog struct {
	locations [3][]Location
	materials [3][]Material
}

func LocationsPath(mt tilemap.MapType) string {
	return fmt.Sprintf("markers/%s/locations.json", mt)
}

func MaterialsPath(mt tilemap.MapType) string {
	return fmt.Sprintf("markers/%s/materials.json", mt)
}

// LoadCatalog reads both files of all three map types. Any missing or
// malformed file fails the load.
func LoadCatalog(source assets.Source) (*Catalog, error) {
	c := &Catalog{}
	for _, mt := range tilemap.AllMapTypes {
		if err := readJSON(source, LocationsPath(mt), &c.locations[mt]); err != nil {
			return nil, err
		}
		if err := readJSON(source, MaterialsPath(mt), &c.materials[mt]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func readJSON(source assets.Source, name string, out any) error {
	data, err := source.ReadAsset(name)
	if err != nil {
		return fmt.Errorf("markers: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("markers: decode %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) Locations(mt tilemap.MapType) []Location {
	return c.locations[mt]
}

func (c *Catalog) Materials(mt tilemap.MapType) []Material {
	return c.materials[mt]
}

func (c *Catalog) LocationNames(mt tilemap.MapType) []string {
	names := make([]string, 0, len(c.locations[mt]))
	for _, loc := range c.locations[mt] {
		names = append(names, loc.Name)
	}
	return names
}

func (c *Catalog) MaterialNames(mt tilemap.MapType) []string {
	names := make([]string, 0, len(c.materials[mt]))
	for _, mat := range c.materials[mt] {
		names = append(names, mat.Name)
	}
	return names
}
