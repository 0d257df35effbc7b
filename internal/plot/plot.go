package plot

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/RMahshie/audiogram/pkg/audiogram"
)

// Frequencies averaged for the pure-tone average
var PureToneFrequencies = []int{500, 1000, 2000}

// Marker is a single plotted point
type Marker struct {
	Frequency  int    `json:"frequency" doc:"Frequency in Hz"`
	Amplitude  int    `json:"amplitude" doc:"Threshold in dB HL"`
	NoResponse bool   `json:"no_response" doc:"Threshold boundary rather than a measured point"`
	Symbol     string `json:"symbol" doc:"Audiogram symbol for this ear and modality"`
}

// Segment connects two markers of the same series by index
type Segment struct {
	From int `json:"from" doc:"Index of the starting marker"`
	To   int `json:"to" doc:"Index of the ending marker"`
}

// Series is one ear/modality line on the chart
type Series struct {
	Ear             audiogram.Ear      `json:"ear" doc:"Ear plotted by this series"`
	Modality        audiogram.Modality `json:"modality" doc:"Conduction modality plotted by this series"`
	Markers         []Marker           `json:"markers" doc:"Markers in input order"`
	Segments        []Segment          `json:"segments" doc:"Line segments between markers"`
	PureToneAverage *float64           `json:"pure_tone_average,omitempty" doc:"Mean threshold at 500, 1000 and 2000 Hz"`
}

// Chart is everything a renderer needs to draw an audiogram
type Chart struct {
	Series []Series `json:"series" doc:"One series per ear and modality present"`
}

// Build partitions the collection by ear and modality, in first-seen order,
// and describes markers and connecting segments for each partition.
func Build(c *audiogram.ResponseCollection) (*Chart, error) {
	chart := &Chart{Series: []Series{}}

	for _, ear := range c.Ears() {
		for _, modality := range c.Modalities() {
			partition := c.Partition(ear, modality)
			if partition.Len() == 0 {
				continue
			}

			series, err := buildSeries(partition)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s/%s series: %w", ear, modality, err)
			}
			chart.Series = append(chart.Series, *series)
		}
	}

	return chart, nil
}

func buildSeries(partition *audiogram.ResponseCollection) (*Series, error) {
	ear, err := partition.Ear()
	if err != nil {
		return nil, err
	}
	modality, err := partition.Modality()
	if err != nil {
		return nil, err
	}

	responses := partition.Responses()
	series := &Series{
		Ear:      ear,
		Modality: modality,
		Markers:  make([]Marker, 0, len(responses)),
		Segments: []Segment{},
	}

	for i, r := range responses {
		series.Markers = append(series.Markers, Marker{
			Frequency:  r.Frequency(),
			Amplitude:  r.Amplitude(),
			NoResponse: r.NoResponse(),
			Symbol:     Symbol(ear, modality, r.NoResponse()),
		})

		if i == len(responses)-1 {
			break
		}
		needsLine, err := partition.NeedsLineToNextMarker(i)
		if err != nil {
			return nil, err
		}
		if needsLine {
			series.Segments = append(series.Segments, Segment{From: i, To: i + 1})
		}
	}

	series.PureToneAverage = PureToneAverage(responses)
	return series, nil
}

// Symbol returns the conventional audiogram marker: O/X for right/left air,
// </> for right/left bone. No-response markers carry a downward arrow.
func Symbol(ear audiogram.Ear, modality audiogram.Modality, noResponse bool) string {
	var s string
	switch {
	case ear == audiogram.EarRight && modality == audiogram.ModalityBone:
		s = "<"
	case ear == audiogram.EarLeft && modality == audiogram.ModalityBone:
		s = ">"
	case ear == audiogram.EarLeft:
		s = "X"
	default:
		s = "O"
	}
	if noResponse {
		s += "↓"
	}
	return s
}

// PureToneAverage averages the measured thresholds at PureToneFrequencies.
// It returns nil unless each of them has a measured (non no-response) value;
// the first measurement at a frequency wins.
func PureToneAverage(responses []audiogram.Response) *float64 {
	thresholds := make(map[int]float64, len(PureToneFrequencies))
	for _, r := range responses {
		if r.NoResponse() {
			continue
		}
		if _, ok := thresholds[r.Frequency()]; !ok {
			thresholds[r.Frequency()] = float64(r.Amplitude())
		}
	}

	values := make([]float64, 0, len(PureToneFrequencies))
	for _, f := range PureToneFrequencies {
		v, ok := thresholds[f]
		if !ok {
			return nil
		}
		values = append(values, v)
	}

	mean := stat.Mean(values, nil)
	return &mean
}
