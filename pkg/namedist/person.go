package namedist

import (
	"regexp"
	"strings"
)

// NameComparer compares a name found in text against a registry name.
// It is used when the text gives the name as initials (e.g. "И.И. Иванов").
type NameComparer interface {
	// Compare returns a distance; lower means more alike.
	Compare(textName, registryName string) int
}

var aliasRe = regexp.MustCompile(`"([^"]+)"`)

// Feminine declension endings stripped before comparing surnames.
// "овой" ends with "ой" so it never matches first; masculine endings are
// deliberately not handled.
var surnameSuffixes = []string{"ой", "ая", "овой"}

// PersonComparer compares person names by surname and initials, with alias
// handling for registry entries that carry quoted pseudonyms.
type PersonComparer struct{}

// NewPersonComparer creates a PersonComparer.
func NewPersonComparer() *PersonComparer {
	return &PersonComparer{}
}

// Compare derives (surname, initials) for the text name, the registry name
// and every quoted alias in the registry name, and returns the minimum of
// TokenSetDistance(surname, surname) + TokenSetDistance(initials, initials)
// across the registry candidates.
func (p *PersonComparer) Compare(textName, registryName string) int {
	textSurname, textInitials := splitName(normalizeName(textName))

	candidates := []string{normalizeName(registryName)}
	for _, m := range aliasRe.FindAllStringSubmatch(registryName, -1) {
		candidates = append(candidates, normalizeName(m[1]))
	}

	minDistance := -1
	for _, candidate := range candidates {
		surname, initials := splitName(candidate)
		d := TokenSetDistance(textSurname, surname) + TokenSetDistance(textInitials, initials)
		if minDistance < 0 || d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}

// normalizeName lowercases, removes periods and quotation marks, and
// collapses whitespace.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", "", `"`, "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// splitName takes the last whitespace-delimited token as the surname (after
// declension-suffix stripping) and the first letter of each preceding token,
// concatenated, as the initials.
func splitName(s string) (surname, initials string) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return "", ""
	}

	surname = stripSurnameSuffix(parts[len(parts)-1])

	var b strings.Builder
	for _, part := range parts[:len(parts)-1] {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return surname, b.String()
}

func stripSurnameSuffix(s string) string {
	for _, suffix := range surnameSuffixes {
		if strings.HasSuffix(s, suffix) {
			// Only the final character is dropped, whatever the suffix length.
			return s[:len(s)-2]
		}
	}
	return s
}

var _ NameComparer = (*PersonComparer)(nil)
