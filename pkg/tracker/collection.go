package tracker

import "slices"

type keyed interface {
	Key() string
}

func indexOf[T keyed](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.Key() == id })
}

func find[T keyed](items []T, id string) (T, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// modify runs fn on a copy of the entity with the given id and returns a new
// slice holding the result. items itself is never written to.
func modify[T keyed](items []T, kind string, id string, fn func(T) (T, error)) ([]T, error) {
	i := indexOf(items, id)
	if i < 0 {
		return items, notFound(kind, id)
	}
	updated, err := fn(items[i])
	if err != nil {
		return items, err
	}
	out := slices.Clone(items)
	out[i] = updated
	return out, nil
}

func remove[T keyed](items []T, kind string, id string) ([]T, error) {
	i := indexOf(items, id)
	if i < 0 {
		return items, notFound(kind, id)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}

// appendCopy never shares a backing array with the input.
func appendCopy[T any](items []T, extra ...T) []T {
	out := make([]T, 0, len(items)+len(extra))
	out = append(out, items...)
	return append(out, extra...)
}

func removeAt[T any](items []T, index int) ([]T, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), true
}
