package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamebus_backend/pkg/utils"
)

const (
	DefaultGeocoderURL       = "https://nominatim.openstreetmap.org"
	DefaultGeocoderUserAgent = "GAMEBUS-MTY/1.0"
	DefaultGeocoderTimeout   = 8 * time.Second
)

// GeocodeService turns map coordinates into a street address. Lookups are
// best effort: any failure yields "".
type GeocodeService interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) string
}

type nominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewGeocodeService builds a Nominatim client. Empty arguments take defaults.
func NewGeocodeService(baseURL, userAgent string, timeout time.Duration) GeocodeService {
	if baseURL == "" {
		baseURL = DefaultGeocoderURL
	}
	if userAgent == "" {
		userAgent = DefaultGeocoderUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultGeocoderTimeout
	}
	return &nominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
}

func (g *nominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	addr, err := g.reverse(ctx, lat, lon)
	if err != nil {
		utils.LogWarn("Reverse geocoding failed", map[string]interface{}{"lat": lat, "lon": lon, "error": err.Error()})
		return ""
	}
	return addr
}

func (g *nominatimGeocoder) reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body nominatimReverse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode geocoder response: %w", err)
	}
	return body.DisplayName, nil
}
