package employee

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	idPrefixLen  = 3
	idPad        = "_"
	idPendingSeq = "___"
)

var idPattern = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)

// IDPrefix derives the three-character employee id prefix from a department
// name: first three characters, uppercased, right-padded with "_". complete
// is false when padding was needed.
func IDPrefix(department string) (prefix string, complete bool) {
	dep := strings.ToUpper(strings.TrimSpace(department))
	if utf8.RuneCountInString(dep) > idPrefixLen {
		dep = string([]rune(dep)[:idPrefixLen])
	}
	n := utf8.RuneCountInString(dep)
	if n < idPrefixLen {
		return dep + strings.Repeat(idPad, idPrefixLen-n), false
	}
	return dep, true
}

// FormatID joins a prefix with a 1-based sequence number: ENG-001.
func FormatID(prefix string, seq int) string {
	if seq < 1 {
		seq = 1
	}
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// PendingID is the placeholder id shown for an incomplete prefix: AX_-___.
func PendingID(prefix string) string {
	return prefix + "-" + idPendingSeq
}

// ValidID reports whether id has the submit-ready ABC-001 shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
