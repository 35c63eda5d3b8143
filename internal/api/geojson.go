package api

import (
	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

// toGeoJSON renders alerts as map markers.
func toGeoJSON(alerts []models.Alert) FeatureCollection {
	features := make([]Feature, 0, len(alerts))

	for _, a := range alerts {
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{a.Lng, a.Lat},
			},
			Properties: map[string]any{
				"id":        a.ID,
				"title":     a.Title,
				"type":      a.Type,
				"location":  a.Location,
				"affected":  a.Affected,
				"severity":  a.Severity,
				"status":    a.Status,
				"timestamp": a.Timestamp,
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
