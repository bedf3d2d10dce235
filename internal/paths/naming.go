package paths

import "strings"

// ///////////////////////////////////////////////
// Slashes
// ///////////////////////////////////////////////

// EnsureTrailingSlash adds a trailing "/" when wanted and missing, and strips
// exactly one when not wanted and present. Applying it twice with the same
// flag yields the same result as applying it once.
func EnsureTrailingSlash(p string, wanted bool) string {
	hasSlash := strings.HasSuffix(p, "/")
	switch {
	case hasSlash && !wanted:
		return p[:len(p)-1]
	case !hasSlash && wanted:
		return p + "/"
	default:
		return p
	}
}

// ///////////////////////////////////////////////
// Package Names
// ///////////////////////////////////////////////

// NormalizePackageName strips the [OrgScope] prefix from name. Names in any
// other scope are returned unchanged.
//
//	NormalizePackageName("@ehrocks/foo") // "foo"
//	NormalizePackageName("@other/foo")   // "@other/foo"
func NormalizePackageName(name string) string {
	return strings.TrimPrefix(name, OrgScope)
}

// ToIdentifier turns a package name into a global variable name. Runes other
// than ASCII letters, '-' and '/' are dropped; each '-' or '/' is then removed
// and the rune after it upper-cased. A separator with nothing after it is
// kept. Returns "" for empty input.
//
//	ToIdentifier("my-lib") // "myLib"
//	ToIdentifier("a/b-c")  // "aBC"
func ToIdentifier(name string) string {
	if name == "" {
		return ""
	}

	kept := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isASCIILetter(c) || isSeparator(c) {
			kept = append(kept, c)
		}
	}

	var b strings.Builder
	b.Grow(len(kept))
	for i := 0; i < len(kept); i++ {
		c := kept[i]
		if isSeparator(c) && i+1 < len(kept) {
			b.WriteByte(toUpper(kept[i+1]))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSeparator(c byte) bool {
	return c == '-' || c == '/'
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
