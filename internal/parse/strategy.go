package parse

// strategy attempts to interpret text. The boolean is false when the
// strategy does not recognize the input and the next one should be tried.
type strategy[T any] func(text string) (T, bool)

// firstOf runs strategies in order and returns the first recognized result.
// fallback is used when no strategy matches.
func firstOf[T any](text string, fallback func(string) T, strategies ...strategy[T]) T {
	for _, s := range strategies {
		if v, ok := s(text); ok {
			return v
		}
	}
	return fallback(text)
}
