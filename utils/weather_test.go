package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{2, "Clear"},
		{3, "Cloudy"},
		{51, "Rainy"},
		{71, "Snowy"},
		{96, "Thunderstorm"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describeWeatherCode(tt.code), "code %d", tt.code)
	}
}

func TestCurrentWeatherUnknownCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	c := NewWeatherClient()
	c.Client = server.Client()
	c.geocodeURL = server.URL
	c.forecastURL = server.URL

	report, err := c.CurrentWeather(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find a location named 'Atlantis'.", report)
}

func TestCurrentWeatherFormatsReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":"Tokyo","country":"Japan","latitude":35.7,"longitude":139.7}]}`))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current":{"temperature_2m":21.5,"relative_humidity_2m":60,"weather_code":1,"wind_speed_10m":8.4},
			"current_units":{"temperature_2m":"°C"}
		}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewWeatherClient()
	c.Client = server.Client()
	c.geocodeURL = server.URL + "/geocode"
	c.forecastURL = server.URL + "/forecast"

	report, err := c.CurrentWeather(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Weather in Tokyo, Japan:\nCondition: Clear\nTemperature: 21.5°C\nWind: 8.4 km/h", report)
}
