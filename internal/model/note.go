package model

import "unicode/utf8"

// Note is one record to create through the notes API.
// Its fields belong to the API contract; we only look at the title.
type Note map[string]any

// Title returns the note's title, or "" when it is missing or not a string.
func (n Note) Title() string {
	s, _ := n["title"].(string)
	return s
}

// Content returns the note's content, or "" when it is missing or not a string.
func (n Note) Content() string {
	s, _ := n["content"].(string)
	return s
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
