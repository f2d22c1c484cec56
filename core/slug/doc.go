// Package slug turns display names into identifier fragments made of
// lowercase ASCII letters, digits and underscores.
//
// Accents are stripped through Unicode decomposition (golang.org/x/text), and
// letters without a decomposition, such as the Icelandic þ and ð, are
// transliterated first.
package slug
