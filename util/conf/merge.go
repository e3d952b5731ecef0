package conf

// MergeDefaults merges maps into a single map, prefixing every key
// with the namespace ns. An empty namespace keeps the keys as is.
func MergeDefaults[M ~map[string]V, V any](ns string, maps ...M) M {
	fullCap := 0
	for _, m := range maps {
		fullCap += len(m)
	}

	merged := make(M, fullCap)
	for _, m := range maps {
		for key, val := range m {
			if ns != "" {
				key = ns + "." + key
			}
			merged[key] = val
		}
	}

	return merged
}
