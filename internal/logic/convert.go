package logic

// ToCelsius converts a raw sample to degrees Celsius.
// The sensor scale (0..MaxRaw mapped onto 0..500) is kept exactly as the
// hardware was calibrated; do not "correct" it.
func ToCelsius(raw RawSample) float64 {
	return float64(raw) * 500.0 / 1023.0
}

// ToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func ToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// NewReading converts a raw sample into a Reading, Celsius first and
// Fahrenheit derived from it.
func NewReading(raw RawSample) Reading {
	c := ToCelsius(raw)
	return Reading{
		Raw:        raw,
		Celsius:    c,
		Fahrenheit: ToFahrenheit(c),
	}
}
