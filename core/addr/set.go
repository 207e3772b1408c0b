package addr

// OnlyInFirst returns the items of first whose key does not occur in second,
// keeping the order of first.
func OnlyInFirst[T any, K comparable](first, second []T, key func(T) K) []T {
	index := make(map[K]struct{}, len(second))
	for _, item := range second {
		index[key(item)] = struct{}{}
	}
	var ret []T
	for _, item := range first {
		if _, ok := index[key(item)]; !ok {
			ret = append(ret, item)
		}
	}
	return ret
}

// InBoth returns the items of first whose key also occurs in second,
// keeping the order of first.
func InBoth[T any, K comparable](first, second []T, key func(T) K) []T {
	index := make(map[K]struct{}, len(second))
	for _, item := range second {
		index[key(item)] = struct{}{}
	}
	var ret []T
	for _, item := range first {
		if _, ok := index[key(item)]; ok {
			ret = append(ret, item)
		}
	}
	return ret
}

// Unique drops items whose key was already seen, keeping the first occurrence.
func Unique[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	ret := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ret = append(ret, item)
	}
	return ret
}

// Identity is the key function for comparable items.
func Identity[T comparable](v T) T {
	return v
}
