// Package validate checks the basic-info record before the wizard advances.
package validate

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/enrollr/internal/employee"
)

// Errors maps a field name to its message. A nil map means the record is valid.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Messages shown for each failed rule.
const (
	MsgFullName   = "At least 2 characters"
	MsgEmail      = "Invalid email"
	MsgDepartment = "Choose a department"
	MsgPosition   = "Choose a role"
	MsgEmployeeID = "ID must look like ABC-001"
)

// The local part and domain shapes accepted for email, on top of net/mail
// parsing: no display names, and a dotted domain.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+'-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

// Step1 validates the basic-info record.
func Step1(f employee.Step1Fields) Errors {
	var errs Errors
	add := func(field, msg string) {
		if errs == nil {
			errs = Errors{}
		}
		errs[field] = msg
	}

	if utf8.RuneCountInString(f.FullName) < 2 {
		add(employee.FieldFullName, MsgFullName)
	}
	if !validEmail(f.Email) {
		add(employee.FieldEmail, MsgEmail)
	}
	if utf8.RuneCountInString(f.Department) < 2 {
		add(employee.FieldDepartment, MsgDepartment)
	}
	if !slices.Contains(employee.Positions, f.Role) {
		add(employee.FieldPosition, MsgPosition)
	}
	if !employee.ValidID(f.EmployeeID) {
		add(employee.FieldEmployeeID, MsgEmployeeID)
	}
	return errs
}

func validEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	return emailPattern.MatchString(s)
}
