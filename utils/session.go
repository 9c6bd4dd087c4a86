package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	ua "github.com/mileusna/useragent"
)

type geoIPResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// ParseUserAgent extracts the browser, OS and device class shown on the
// device management screen.
func ParseUserAgent(userAgent string) (browser, os, device string) {
	browser, os, device = "Unknown Browser", "Unknown OS", "Desktop"
	if userAgent == "" {
		return
	}

	parsed := ua.Parse(userAgent)
	if parsed.Name != "" {
		browser = parsed.Name
	}
	if parsed.OS != "" {
		os = parsed.OS
	}

	switch {
	case parsed.Mobile && strings.Contains(userAgent, "iPhone"):
		device = "iPhone"
	case parsed.Mobile:
		device = "Mobile"
	case parsed.Tablet:
		device = "Tablet"
	}

	return strings.TrimSpace(browser), strings.TrimSpace(os), device
}

// GetLocationFromIP resolves a coarse location for the session list. Lookup
// failures degrade to "Unknown Location" instead of failing the sign-in.
func GetLocationFromIP(ip string) (string, error) {
	if ip == "" {
		return "Unknown Location", nil
	}
	if ip == "127.0.0.1" || ip == "::1" || strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.") {
		return "Local Network", nil
	}

	resp, err := http.Get(fmt.Sprintf("https://ipapi.co/%s/json/", ip))
	if err != nil {
		return "Unknown Location", nil
	}
	defer resp.Body.Close()

	var geo geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return "Unknown Location", nil
	}

	switch {
	case geo.City != "" && geo.Country != "":
		return fmt.Sprintf("%s, %s", geo.City, geo.Country), nil
	case geo.Country != "":
		return geo.Country, nil
	}
	return "Unknown Location", nil
}

// GenerateSessionName builds the display name for a new session, for
// example "Chrome on Mac OS X (Seoul, KR)".
func GenerateSessionName(userAgent string, location string) string {
	browser, os, _ := ParseUserAgent(userAgent)
	if location == "" {
		location = "Unknown Location"
	}
	return fmt.Sprintf("%s on %s (%s)", browser, os, location)
}
