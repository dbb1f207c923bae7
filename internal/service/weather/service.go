package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultGeocodeBaseURL = "https://nominatim.openstreetmap.org"
	defaultWeatherBaseURL = "https://api.open-meteo.com"
	userAgent             = "sunoji-companion/1.0"
)

// Report is the spoken-friendly weather summary for one location.
type Report struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature_c"`
	WindSpeed   float64 `json:"wind_speed_kmh"`
	Condition   string  `json:"condition"`
	Summary     string  `json:"summary"`
}

// wmoConditions maps the WMO weather interpretation codes reported by
// Open-Meteo to short descriptions.
var wmoConditions = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "foggy",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	71: "slight snow",
	73: "moderate snow",
	75: "heavy snow",
	80: "rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	95: "thunderstorm",
	96: "thunderstorm with slight hail",
	99: "thunderstorm with heavy hail",
}

// Service fetches current conditions for a named place. Geocoding goes
// through Nominatim, conditions through Open-Meteo; neither needs an
// API key.
type Service struct {
	geocodeBaseURL string
	weatherBaseURL string
	httpClient     *http.Client
}

func NewService() *Service {
	return &Service{
		geocodeBaseURL: defaultGeocodeBaseURL,
		weatherBaseURL: defaultWeatherBaseURL,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

// NewServiceWith overrides the upstream base URLs, for tests.
func NewServiceWith(geocodeBaseURL, weatherBaseURL string, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Service{geocodeBaseURL: geocodeBaseURL, weatherBaseURL: weatherBaseURL, httpClient: client}
}

// Current resolves the place name and returns its current conditions.
func (s *Service) Current(ctx context.Context, place string) (*Report, error) {
	if place == "" {
		return nil, fmt.Errorf("place is required")
	}

	lat, lon, display, err := s.geocode(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q failed: %w", place, err)
	}

	report, err := s.current(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("weather lookup for %q failed: %w", place, err)
	}

	report.Location = display
	report.Summary = fmt.Sprintf("It's %.0f degrees and %s in %s.", report.Temperature, report.Condition, display)
	log.Debug().Str("place", place).Float64("lat", lat).Float64("lon", lon).Msg("weather lookup complete")
	return report, nil
}

// CurrentAt skips geocoding and reports conditions for raw coordinates.
func (s *Service) CurrentAt(ctx context.Context, lat, lon float64) (*Report, error) {
	report, err := s.current(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("weather lookup failed: %w", err)
	}
	report.Location = fmt.Sprintf("%.4f, %.4f", lat, lon)
	report.Summary = fmt.Sprintf("It's %.0f degrees and %s where you are.", report.Temperature, report.Condition)
	return report, nil
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
}

func (s *Service) geocode(ctx context.Context, place string) (lat, lon float64, display string, err error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	body, err := s.get(ctx, s.geocodeBaseURL+"/search?"+q.Encode())
	if err != nil {
		return 0, 0, "", err
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, "", fmt.Errorf("unexpected geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, "", fmt.Errorf("no match found")
	}

	r := results[0]
	lat, err = strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad latitude %q", r.Lat)
	}
	lon, err = strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad longitude %q", r.Lon)
	}
	display = r.Name
	if display == "" {
		display = r.DisplayName
	}
	return lat, lon, display, nil
}

type currentWeatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (s *Service) current(ctx context.Context, lat, lon float64) (*Report, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current_weather", "true")

	body, err := s.get(ctx, s.weatherBaseURL+"/v1/forecast?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp currentWeatherResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected weather response: %w", err)
	}

	condition, ok := wmoConditions[resp.CurrentWeather.WeatherCode]
	if !ok {
		condition = "unsettled"
	}
	return &Report{
		Temperature: resp.CurrentWeather.Temperature,
		WindSpeed:   resp.CurrentWeather.WindSpeed,
		Condition:   condition,
	}, nil
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(snippet))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
