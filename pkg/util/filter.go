package util

func InPlaceFilter[T any](s *[]T, p func(T) bool) {
	i := 0
	for _, e := range *s {
		if p(e) {
			(*s)[i] = e
			i++
		}
	}
	*s = (*s)[:i]
}

func Filter[T any](s []T, p func(T) bool) []T {
	var out []T
	for _, e := range s {
		if p(e) {
			out = append(out, e)
		}
	}
	return out
}
