package batchify

// AsList forwards the sample list unchanged. Useful as a Group sub-functor
// for fields that should stay out of array form, such as raw text.
type AsList struct{}

// NewAsList returns an AsList functor.
func NewAsList() *AsList {
	return &AsList{}
}

// Batchify returns a fresh list with the samples in their original order.
func (l *AsList) Batchify(samples []any) (any, error) {
	out := make([]any, len(samples))
	copy(out, samples)
	return out, nil
}
