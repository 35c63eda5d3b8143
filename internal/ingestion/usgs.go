package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   usgsGeometry   `json:"geometry"`
}
type usgsProperties struct {
	Mag     float64 `json:"mag"`
	Place   string  `json:"place"`
	Time    int64   `json:"time"` // unix millis
	Title   string  `json:"title"`
	Tsunami int     `json:"tsunami"` // 0 or 1
}
type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

func (m *Manager) pollUSGS(ctx context.Context, url string) ([]feedItem, error) {
	resp, err := m.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data usgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	items := make([]feedItem, 0, len(data.Features))
	for _, f := range data.Features {
		if len(f.Geometry.Coordinates) < 2 || f.Properties.Title == "" {
			continue
		}
		items = append(items, feedItem{
			Source: sourceUSGS,
			Key:    f.ID,
			Input:  usgsToInput(f),
		})
	}

	return items, nil
}

func usgsToInput(f usgsFeature) models.AlertInput {
	desc := fmt.Sprintf("Magnitude %.1f earthquake reported by USGS near %s.", f.Properties.Mag, f.Properties.Place)
	if f.Properties.Tsunami == 1 {
		desc += " Tsunami advisory issued."
	}

	return models.AlertInput{
		Title:       f.Properties.Title,
		Type:        "Earthquake",
		Description: desc,
		Location:    usgsLocation(f.Properties.Place),
		Lat:         f.Geometry.Coordinates[1],
		Lng:         f.Geometry.Coordinates[0],
		Severity:    magnitudeSeverity(f.Properties.Mag),
		Status:      models.StatusActive,
	}
}

// usgsLocation trims the distance prefix from places like
// "12 km NE of Pune, India".
func usgsLocation(place string) string {
	if _, after, ok := strings.Cut(place, " of "); ok {
		return strings.TrimSpace(after)
	}
	return place
}

func magnitudeSeverity(mag float64) models.Severity {
	switch {
	case mag >= 7:
		return models.SeverityCritical
	case mag >= 6:
		return models.SeverityHigh
	case mag >= 4.5:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
