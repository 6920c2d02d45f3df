package weather

import (
	"strconv"
)

// CelsiusToFahrenheit converts a temperature from °C to °F.
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// MetersPerSecondToKmph converts a speed from m/s to km/h.
func MetersPerSecondToKmph(metersPerSecond float64) float64 {
	return metersPerSecond * 3.6
}

// OneDecimal formats v rounded to one decimal place.
func OneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Display is the text rendered into the temperature, wind and humidity cards.
// The theme is not part of it; see ThemeName.
type Display struct {
	Temperature   string `json:"temperature"`
	WindSpeed     string `json:"windSpeed"`
	WindSpeedKmph string `json:"windSpeedKmph"`
	Humidity      string `json:"humidity"`
	Condition     string `json:"condition"`
	Location      string `json:"location"`
}

// Render derives the card text for res under prefs.
// Celsius is shown as reported by the provider; Fahrenheit is rounded to one decimal.
func Render(res Result, prefs Preferences) Display {
	temp := strconv.FormatFloat(res.TemperatureCelsius, 'f', -1, 64) + "°C"
	if prefs.UseFahrenheit {
		temp = OneDecimal(CelsiusToFahrenheit(res.TemperatureCelsius)) + "°F"
	}

	return Display{
		Temperature:   temp,
		WindSpeed:     strconv.FormatFloat(res.WindSpeedMetersPerSecond, 'f', -1, 64) + " m/s",
		WindSpeedKmph: OneDecimal(MetersPerSecondToKmph(res.WindSpeedMetersPerSecond)) + " km/h",
		Humidity:      strconv.Itoa(res.HumidityPercent) + "%",
		Condition:     res.ConditionDescription,
		Location:      res.LocationName,
	}
}

// ThemeName returns "dark" or "light".
func ThemeName(prefs Preferences) string {
	if prefs.DarkTheme {
		return "dark"
	}
	return "light"
}
