// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds generic slice helpers shared by the listing, the mock
// API and the terminal front ends.
package slicest

// Map

// MapX maps every element of s through fn and stops at the first error.
func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, v := range s {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}
	return result, nil
}

func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result, _ := MapX(s, func(t T) (U, error) {
		return fn(t), nil
	})
	return result
}

// Filter

// Filter returns the elements of s for which keep is true, in order. The
// result is never nil.
func Filter[T any, S ~[]T](s S, keep func(T) bool) S {
	result := make(S, 0, len(s))
	for _, t := range s {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// Any reports whether match holds for at least one element.
func Any[T any, S ~[]T](s S, match func(T) bool) bool {
	for _, t := range s {
		if match(t) {
			return true
		}
	}
	return false
}
