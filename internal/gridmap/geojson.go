package gridmap

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// LoadObstacles reads a GeoJSON FeatureCollection and returns its Polygon and
// MultiPolygon geometries. Coordinates are taken as planar world units, not degrees.
// Other geometry types are ignored.
func LoadObstacles(path string) ([]orb.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read obstacle file %q", path)
	}
	return ParseObstacles(data)
}

// ParseObstacles decodes GeoJSON obstacle polygons from data.
func ParseObstacles(data []byte) ([]orb.Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse obstacle GeoJSON")
	}

	var polygons []orb.Polygon
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		}
	}
	return polygons, nil
}
