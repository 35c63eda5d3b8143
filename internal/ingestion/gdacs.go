package ingestion

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

type gdacsRSS struct {
	Channel gdacsChannel `xml:"channel"`
}
type gdacsChannel struct {
	Items []gdacsItem `xml:"item"`
}
type gdacsItem struct {
	Title       string  `xml:"title"`
	Description string  `xml:"description"`
	Link        string  `xml:"link"`
	PubDate     string  `xml:"pubDate"`
	Lat         float64 `xml:"http://www.w3.org/2003/01/geo/wgs84_pos# Point>lat"`
	Lon         float64 `xml:"http://www.w3.org/2003/01/geo/wgs84_pos# Point>long"`
	EventType   string  `xml:"http://www.gdacs.org eventtype"`
	AlertLevel  string  `xml:"http://www.gdacs.org alertlevel"`
	EventID     string  `xml:"http://www.gdacs.org eventid"`
	Country     string  `xml:"http://www.gdacs.org country"`
	Population  int     `xml:"http://www.gdacs.org population"`
}

func (m *Manager) pollGDACS(ctx context.Context, url string) ([]feedItem, error) {
	resp, err := m.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data gdacsRSS
	if err := xml.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	items := make([]feedItem, 0, len(data.Channel.Items))
	for _, item := range data.Channel.Items {
		if item.Title == "" {
			continue
		}
		key := item.EventID
		if key == "" {
			key = item.Title
		}
		items = append(items, feedItem{
			Source: sourceGDACS,
			Key:    strings.ToUpper(item.EventType) + key,
			Input:  gdacsToInput(item),
		})
	}

	return items, nil
}

func gdacsToInput(item gdacsItem) models.AlertInput {
	location := strings.TrimSpace(item.Country)
	if location == "" {
		location = "Unknown"
	}
	affected := item.Population
	if affected < 0 {
		affected = 0
	}

	return models.AlertInput{
		Title:       item.Title,
		Type:        mapGDACSEventType(item.EventType),
		Description: strings.TrimSpace(item.Description),
		Location:    location,
		Affected:    affected,
		Lat:         item.Lat,
		Lng:         item.Lon,
		Severity:    alertLevelSeverity(item.AlertLevel),
		Status:      models.StatusActive,
	}
}

func mapGDACSEventType(eventType string) string {
	switch strings.ToUpper(eventType) {
	case "EQ":
		return "Earthquake"
	case "TC":
		return "Cyclone"
	case "FL":
		return "Flood"
	case "VO":
		return "Volcano"
	case "TS":
		return "Tsunami"
	case "WF":
		return "Wildfire"
	case "DR":
		return "Drought"
	default:
		return "Other"
	}
}

func alertLevelSeverity(level string) models.Severity {
	switch strings.ToLower(level) {
	case "red":
		return models.SeverityCritical
	case "orange":
		return models.SeverityHigh
	case "green":
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}
