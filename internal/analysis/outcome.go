package analysis

// Source says which path produced an analysis result
type Source string

const (
	// SourceModel means a pretrained classifier produced the result
	SourceModel Source = "model"
	// SourceLexical means lexical rules produced the result
	SourceLexical Source = "lexical"
	// SourceFallback means analysis failed and the safe default was returned
	SourceFallback Source = "fallback"
)

// Outcome wraps an analysis result with where it came from. Reason is set
// whenever the preferred path could not be used.
type Outcome[T any] struct {
	Result T
	Source Source
	Reason string
}

// Degraded reports whether the result came from a fallback path
func (o Outcome[T]) Degraded() bool {
	return o.Reason != ""
}
