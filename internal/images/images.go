// Package images resolves relative TMDB image paths into full URLs.
package images

import "strings"

type Class int

const (
	Poster Class = iota
	Backdrop
	Profile
	Logo
)

type Size int

const (
	Small Size = iota
	Medium
	Large
	Original
)

// sizeTokens maps an image class to the host's size token per tier.
// Tokens differ per class; "original" is shared.
var sizeTokens = map[Class][3]string{
	Poster:   {"w185", "w342", "w780"},
	Backdrop: {"w300", "w780", "w1280"},
	Profile:  {"w45", "w185", "h632"},
	Logo:     {"w45", "w92", "w154"},
}

// Resolver builds image URLs against a fixed image host.
type Resolver struct {
	base string
}

func NewResolver(base string) *Resolver {
	return &Resolver{base: strings.TrimSuffix(base, "/")}
}

// Prefix returns the host prefix for a class and size tier, for clients
// that join relative paths themselves.
func (r *Resolver) Prefix(class Class, size Size) string {
	token := "original"
	if size != Original {
		token = sizeTokens[class][size]
	}
	return r.base + "/" + token
}

// URL returns the full URL for a relative image path, or "" when the
// path is empty (caller substitutes its placeholder).
func (r *Resolver) URL(path string, class Class, size Size) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	token := "original"
	if size != Original {
		token = sizeTokens[class][size]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.base + "/" + token + path
}
