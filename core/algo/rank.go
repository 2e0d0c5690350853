package algo

// Limit returns at most n leading items. A non-positive n returns everything.
func Limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
