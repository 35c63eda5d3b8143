package models

import "time"

// DefaultAlerts returns the bundled dataset used to seed an empty store.
// Timestamps are relative to now.
func DefaultAlerts(now time.Time) []Alert {
	now = now.UTC().Round(0)
	return []Alert{
		{
			ID:          "HYD-FIRE-2024",
			Title:       "Fire in bharat college - Hyderabad",
			Type:        "Fire",
			Description: "A major fire has broken out in the main building of Bharat College.",
			Location:    "Hyderabad",
			Affected:    300,
			Lat:         17.3850,
			Lng:         78.4867,
			Timestamp:   now.Add(-10 * time.Minute),
			Severity:    SeverityHigh,
			Status:      StatusActive,
		},
		{
			ID:          "PUNE-LS-2024",
			Title:       "Landslide Alert - Hill Areas - Pune",
			Type:        "Landslide",
			Description: "Heavy rainfall has triggered multiple landslides in the hilly outskirts of Pune.",
			Location:    "Pune",
			Affected:    1200,
			Lat:         18.5204,
			Lng:         73.8567,
			Timestamp:   now.Add(-30 * time.Minute),
			Severity:    SeverityHigh,
			Status:      StatusActive,
		},
		{
			ID:          "BNG-FIRE-2024",
			Title:       "Forest Fire Spreading - Bangalore",
			Type:        "Wildfire",
			Description: "A forest fire near Bannerghatta National Park is spreading rapidly due to high winds.",
			Location:    "Bangalore",
			Affected:    800,
			Lat:         12.9716,
			Lng:         77.5946,
			Timestamp:   now.Add(-2 * time.Hour),
			Severity:    SeverityCritical,
			Status:      StatusActive,
		},
		{
			ID:          "CHN-CYC-2024",
			Title:       "Cyclone Warning - Coastal Areas - Chennai",
			Type:        "Cyclone",
			Description: "A severe cyclone is expected to make landfall near Chennai. High alert issued for coastal communities.",
			Location:    "Chennai",
			Affected:    50000,
			Lat:         13.0827,
			Lng:         80.2707,
			Timestamp:   now.Add(-8 * time.Hour),
			Severity:    SeverityCritical,
			Status:      StatusMonitoring,
		},
		{
			ID:          "MUM-FLD-2024",
			Title:       "Severe Flooding in Mumbai - Mumbai",
			Type:        "Flood",
			Description: "Unprecedented monsoon rains have caused severe flooding across Mumbai. Transport services are suspended.",
			Location:    "Mumbai",
			Affected:    200000,
			Lat:         19.0760,
			Lng:         72.8777,
			Timestamp:   now.Add(-24 * time.Hour),
			Severity:    SeverityCritical,
			Status:      StatusActive,
		},
		{
			ID:          "EQ72-2024",
			Title:       "Earthquake M7.2 Detected - Delhi",
			Type:        "Earthquake",
			Description: "Major seismic activity detected near the capital. Evacuation in progress in affected zones.",
			Location:    "Delhi",
			Affected:    15000,
			Lat:         28.7041,
			Lng:         77.1025,
			Timestamp:   now.Add(-2 * time.Minute),
			Severity:    SeverityCritical,
			Status:      StatusActive,
		},
	}
}
