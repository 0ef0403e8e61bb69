// Package utils holds the outbound HTTP clients behind the web skills:
// weather lookups, search and translation.
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	geocodeEndpoint  = "https://geocoding-api.open-meteo.com/v1/search"
	forecastEndpoint = "https://api.open-meteo.com/v1/forecast"
)

type WeatherClient struct {
	Client *http.Client

	geocodeURL  string
	forecastURL string
}

func NewWeatherClient() *WeatherClient {
	return &WeatherClient{
		Client:      &http.Client{Timeout: 15 * time.Second},
		geocodeURL:  geocodeEndpoint,
		forecastURL: forecastEndpoint,
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
	} `json:"current_units"`
}

// CurrentWeather geocodes the city with open-meteo and formats the current
// conditions. A city that cannot be resolved is reported in the returned
// string, not as an error.
func (c *WeatherClient) CurrentWeather(ctx context.Context, city string) (string, error) {
	geoURL := fmt.Sprintf("%s?name=%s&count=1&language=en&format=json", c.geocodeURL, url.QueryEscape(city))

	var geo geocodeResponse
	if err := c.getJSON(ctx, geoURL, &geo); err != nil {
		return "", fmt.Errorf("geocoding failed: %w", err)
	}
	if len(geo.Results) == 0 {
		return fmt.Sprintf("I couldn't find a location named '%s'.", city), nil
	}

	location := geo.Results[0]
	resolved := location.Name
	if location.Country != "" {
		resolved += ", " + location.Country
	}

	forecastURL := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m",
		c.forecastURL, location.Latitude, location.Longitude)

	var forecast forecastResponse
	if err := c.getJSON(ctx, forecastURL, &forecast); err != nil {
		return "", fmt.Errorf("forecast failed: %w", err)
	}
	if forecast.Current == nil {
		return "Could not retrieve weather data.", nil
	}

	current := forecast.Current
	return fmt.Sprintf("Weather in %s:\nCondition: %s\nTemperature: %g%s\nWind: %g km/h",
		resolved, describeWeatherCode(current.WeatherCode),
		current.Temperature, forecast.CurrentUnits.Temperature,
		current.WindSpeed), nil
}

// describeWeatherCode collapses WMO weather codes into a handful of rough
// buckets; precision is not the point of a one-line reply.
func describeWeatherCode(code int) string {
	switch {
	case code > 95:
		return "Thunderstorm"
	case code > 70:
		return "Snowy"
	case code > 50:
		return "Rainy"
	case code > 2:
		return "Cloudy"
	default:
		return "Clear"
	}
}

func (c *WeatherClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
