package orb

// DefaultEnergyDivisor maps a mean byte magnitude into a noise factor of
// roughly [0, 2] for ordinary program material.
const DefaultEnergyDivisor = 80

// Analyser exposes per-frame spectrum and waveform bytes of an audio stream.
type Analyser interface {
	FrequencyBinCount() int
	// ByteFrequencyData fills dst with magnitudes in [0, 255].
	ByteFrequencyData(dst []byte)
	// ByteTimeDomainData fills dst with samples centred on 128.
	ByteTimeDomainData(dst []byte)
}

// Energy fills data from a and returns the mean bin magnitude divided by
// divisor. A missing analyser or buffer means silence and yields 0.
func Energy(a Analyser, data []byte, divisor float64) float64 {
	if a == nil || len(data) == 0 {
		return 0
	}
	if divisor <= 0 {
		divisor = DefaultEnergyDivisor
	}

	a.ByteFrequencyData(data)

	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return float64(sum) / float64(len(data)) / divisor
}
