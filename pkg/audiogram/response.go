package audiogram

import (
	"encoding/json"
	"fmt"
)

// Ear identifies the side tested
type Ear string

const (
	EarLeft  Ear = "left"
	EarRight Ear = "right"
)

// Valid reports whether e is one of the known ears
func (e Ear) Valid() bool {
	return e == EarLeft || e == EarRight
}

// Opposite returns the other ear
func (e Ear) Opposite() Ear {
	if e == EarLeft {
		return EarRight
	}
	return EarLeft
}

// Modality is the conduction pathway of a stimulus
type Modality string

const (
	ModalityAir  Modality = "air"
	ModalityBone Modality = "bone"
)

// Valid reports whether m is one of the known modalities
func (m Modality) Valid() bool {
	return m == ModalityAir || m == ModalityBone
}

// Values filled in by NewResponse when the raw record omits them.
const (
	DefaultModality   = ModalityAir
	DefaultNoResponse = false
)

// ParseEar converts a string into an Ear
func ParseEar(s string) (Ear, error) {
	e := Ear(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEar, s)
	}
	return e, nil
}

// ParseModality converts a string into a Modality
func ParseModality(s string) (Modality, error) {
	m := Modality(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidModality, s)
	}
	return m, nil
}

// RawResponse is the loosely typed record accepted from chart configuration
// or form submissions. Optional fields are pointers so that an absent value
// can be told apart from its zero value.
type RawResponse struct {
	Frequency  int       `json:"frequency" doc:"Stimulus frequency in Hz"`
	Amplitude  int       `json:"amplitude" doc:"Stimulus intensity in dB"`
	Ear        Ear       `json:"ear" enum:"left,right" doc:"Ear tested"`
	Modality   *Modality `json:"modality,omitempty" enum:"air,bone" doc:"Conduction modality, air when omitted"`
	NoResponse *bool     `json:"no_response,omitempty" doc:"Subject did not respond at this amplitude"`
}

// Response is a single normalized measurement. It is a value type; two
// responses with the same fields compare equal.
type Response struct {
	frequency  int
	amplitude  int
	ear        Ear
	modality   Modality
	noResponse bool
}

// NewResponse normalizes a raw record, filling DefaultModality and
// DefaultNoResponse for absent fields. Frequency and amplitude pass through
// unchanged.
func NewResponse(raw RawResponse) Response {
	modality := DefaultModality
	if raw.Modality != nil {
		modality = *raw.Modality
	}

	noResponse := DefaultNoResponse
	if raw.NoResponse != nil {
		noResponse = *raw.NoResponse
	}

	return Response{
		frequency:  raw.Frequency,
		amplitude:  raw.Amplitude,
		ear:        raw.Ear,
		modality:   modality,
		noResponse: noResponse,
	}
}

func (r Response) Frequency() int { return r.frequency }
func (r Response) Amplitude() int { return r.amplitude }
func (r Response) Ear() Ear { return r.ear }
func (r Response) Modality() Modality { return r.modality }
func (r Response) NoResponse() bool { return r.noResponse }

// Raw returns the canonical raw shape with every optional field set
func (r Response) Raw() RawResponse {
	modality := r.modality
	noResponse := r.noResponse
	return RawResponse{
		Frequency:  r.frequency,
		Amplitude:  r.amplitude,
		Ear:        r.ear,
		Modality:   &modality,
		NoResponse: &noResponse,
	}
}

// MarshalJSON encodes the response in its canonical raw shape
func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw())
}

func (r Response) String() string {
	s := fmt.Sprintf("%s/%s %dHz@%ddB", r.ear, r.modality, r.frequency, r.amplitude)
	if r.noResponse {
		s += " NR"
	}
	return s
}
