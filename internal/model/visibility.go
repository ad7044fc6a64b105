package model

import "strings"

// InferVisibility maps a Python member name to its visibility.
//
// No leading underscore is public, exactly one is protected, two or more is
// private. Reserved dunder names (__init__, __eq__, ...) are part of the
// public protocol and stay public.
func InferVisibility(name string) Visibility {
	if isDunder(name) {
		return VisibilityPublic
	}
	switch leadingUnderscores(name) {
	case 0:
		return VisibilityPublic
	case 1:
		return VisibilityProtected
	default:
		return VisibilityPrivate
	}
}

func leadingUnderscores(name string) int {
	count := 0
	for _, r := range name {
		if r != '_' {
			break
		}
		count++
	}
	return count
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
