package audiogram

// ResponseCollection is an ordered, immutable set of responses. Order is the
// caller's input order and adjacency queries depend on it.
type ResponseCollection struct {
	responses []Response
}

// From builds a collection by normalizing each raw record in order
func From(raw []RawResponse) *ResponseCollection {
	responses := make([]Response, 0, len(raw))
	for _, r := range raw {
		responses = append(responses, NewResponse(r))
	}
	return &ResponseCollection{responses: responses}
}

// New wraps already-normalized responses. The slice is copied.
func New(responses ...Response) *ResponseCollection {
	return &ResponseCollection{responses: append([]Response(nil), responses...)}
}

// Responses returns a copy of the ordered responses
func (c *ResponseCollection) Responses() []Response {
	return append([]Response(nil), c.responses...)
}

func (c *ResponseCollection) Len() int {
	return len(c.responses)
}

// At returns the response at index i, or an *IndexError outside the
// collection
func (c *ResponseCollection) At(i int) (Response, error) {
	if i < 0 || i >= len(c.responses) {
		return Response{}, &IndexError{Index: i, Len: len(c.responses)}
	}
	return c.responses[i], nil
}

// Next returns the response following index i. The last index, and anything
// outside the collection, yields an *IndexError.
func (c *ResponseCollection) Next(i int) (Response, error) {
	if err := c.checkSuccessor(i); err != nil {
		return Response{}, err
	}
	return c.responses[i+1], nil
}

// NeedsLineToNextMarker reports whether a connecting line is drawn from the
// marker at i to the marker at i+1. No-response markers are threshold
// boundaries: a line neither leaves one nor runs into one.
func (c *ResponseCollection) NeedsLineToNextMarker(i int) (bool, error) {
	if err := c.checkSuccessor(i); err != nil {
		return false, err
	}
	return !c.responses[i].NoResponse() && !c.responses[i+1].NoResponse(), nil
}

func (c *ResponseCollection) checkSuccessor(i int) error {
	if i < 0 || i >= len(c.responses)-1 {
		return &IndexError{Index: i, Len: len(c.responses), Successor: true}
	}
	return nil
}

// FilterByEar returns the responses for ear, in their original relative order
func (c *ResponseCollection) FilterByEar(ear Ear) []Response {
	return c.filter(func(r Response) bool { return r.Ear() == ear })
}

// FilterByModality returns the responses for modality, in their original
// relative order
func (c *ResponseCollection) FilterByModality(modality Modality) []Response {
	return c.filter(func(r Response) bool { return r.Modality() == modality })
}

// Partition returns a new collection holding only the responses matching
// both ear and modality
func (c *ResponseCollection) Partition(ear Ear, modality Modality) *ResponseCollection {
	return &ResponseCollection{responses: c.filter(func(r Response) bool {
		return r.Ear() == ear && r.Modality() == modality
	})}
}

func (c *ResponseCollection) filter(keep func(Response) bool) []Response {
	out := make([]Response, 0, len(c.responses))
	for _, r := range c.responses {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Ears returns the distinct ears present, in first-seen order
func (c *ResponseCollection) Ears() []Ear {
	var ears []Ear
	seen := make(map[Ear]bool)
	for _, r := range c.responses {
		if !seen[r.Ear()] {
			seen[r.Ear()] = true
			ears = append(ears, r.Ear())
		}
	}
	return ears
}

// Modalities returns the distinct modalities present, in first-seen order
func (c *ResponseCollection) Modalities() []Modality {
	var modalities []Modality
	seen := make(map[Modality]bool)
	for _, r := range c.responses {
		if !seen[r.Modality()] {
			seen[r.Modality()] = true
			modalities = append(modalities, r.Modality())
		}
	}
	return modalities
}

// Ear returns the single ear shared by every response. Callers are expected
// to have partitioned the data first; an empty or mixed collection returns a
// *PartitionError.
func (c *ResponseCollection) Ear() (Ear, error) {
	ears := c.Ears()
	if len(ears) != 1 {
		found := make([]string, len(ears))
		for i, e := range ears {
			found[i] = string(e)
		}
		return "", &PartitionError{Dimension: "ear", Found: found}
	}
	return ears[0], nil
}

// Modality returns the single modality shared by every response, with the
// same contract as Ear.
func (c *ResponseCollection) Modality() (Modality, error) {
	modalities := c.Modalities()
	if len(modalities) != 1 {
		found := make([]string, len(modalities))
		for i, m := range modalities {
			found[i] = string(m)
		}
		return "", &PartitionError{Dimension: "modality", Found: found}
	}
	return modalities[0], nil
}
