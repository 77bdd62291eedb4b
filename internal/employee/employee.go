// Package employee defines the record collected by the wizard: the two field
// groups, the per-role draft envelope and their defaults.
package employee

// Step identifies a wizard page. Values match the persisted draft format.
type Step int

const (
	Step1 Step = 1
	Step2 Step = 2
)

func (s Step) String() string {
	switch s {
	case Step1:
		return "Step 1 · Basic Info"
	case Step2:
		return "Step 2 · Details & Submit"
	default:
		return "Unknown step"
	}
}

// Step1 field names, used as keys for validation errors and touched state.
const (
	FieldFullName   = "fullName"
	FieldEmail      = "email"
	FieldDepartment = "department"
	FieldPosition   = "role"
	FieldEmployeeID = "employeeId"
)

// Step1FieldNames lists the basic-info fields in display order.
var Step1FieldNames = []string{FieldFullName, FieldEmail, FieldDepartment, FieldPosition, FieldEmployeeID}

// Step2 field names.
const (
	FieldPhoto          = "photoBase64"
	FieldEmploymentType = "employmentType"
	FieldOfficeLocation = "officeLocation"
	FieldNotes          = "notes"
)

// Positions are the job roles selectable on Step 1. They are unrelated to
// the operator Role.
var Positions = []string{"Ops", "Admin", "Engineer", "Finance"}

// EmploymentTypes are the choices for Step2Fields.EmploymentType.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Intern"}

// EmptyEmployeeID is shown before a department is chosen.
const EmptyEmployeeID = "___-___"

// Step1Fields is the basic-info record.
type Step1Fields struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId"`
}

// Step2Fields is the details record.
type Step2Fields struct {
	PhotoBase64    string `json:"photoBase64"`
	EmploymentType string `json:"employmentType"`
	OfficeLocation string `json:"officeLocation"`
	Notes          string `json:"notes"`
}

// Draft is the in-progress wizard state persisted per role.
type Draft struct {
	Step  Step        `json:"step"`
	Step1 Step1Fields `json:"step1"`
	Step2 Step2Fields `json:"step2"`
}

// DefaultStep1 returns an empty basic-info record.
func DefaultStep1() Step1Fields {
	return Step1Fields{Role: Positions[0], EmployeeID: EmptyEmployeeID}
}

// DefaultStep2 returns an empty details record.
func DefaultStep2() Step2Fields {
	return Step2Fields{EmploymentType: EmploymentTypes[0]}
}

// DefaultDraft returns the draft a role starts with when nothing is stored.
func DefaultDraft(r Role) Draft {
	return Draft{
		Step:  r.InitialStep(),
		Step1: DefaultStep1(),
		Step2: DefaultStep2(),
	}
}

// Get returns the named Step1 field.
func (f Step1Fields) Get(name string) (string, bool) {
	switch name {
	case FieldFullName:
		return f.FullName, true
	case FieldEmail:
		return f.Email, true
	case FieldDepartment:
		return f.Department, true
	case FieldPosition:
		return f.Role, true
	case FieldEmployeeID:
		return f.EmployeeID, true
	}
	return "", false
}

// Set assigns the named Step1 field. It reports false for unknown names.
func (f *Step1Fields) Set(name, value string) bool {
	switch name {
	case FieldFullName:
		f.FullName = value
	case FieldEmail:
		f.Email = value
	case FieldDepartment:
		f.Department = value
	case FieldPosition:
		f.Role = value
	case FieldEmployeeID:
		f.EmployeeID = value
	default:
		return false
	}
	return true
}

// Get returns the named Step2 field.
func (f Step2Fields) Get(name string) (string, bool) {
	switch name {
	case FieldPhoto:
		return f.PhotoBase64, true
	case FieldEmploymentType:
		return f.EmploymentType, true
	case FieldOfficeLocation:
		return f.OfficeLocation, true
	case FieldNotes:
		return f.Notes, true
	}
	return "", false
}

// Set assigns the named Step2 field. It reports false for unknown names.
func (f *Step2Fields) Set(name, value string) bool {
	switch name {
	case FieldPhoto:
		f.PhotoBase64 = value
	case FieldEmploymentType:
		f.EmploymentType = value
	case FieldOfficeLocation:
		f.OfficeLocation = value
	case FieldNotes:
		f.Notes = value
	default:
		return false
	}
	return true
}

// Details is the payload written to the details service. Email and
// EmployeeID are only present for roles that attach identity.
type Details struct {
	Step2Fields
	Email      string `json:"email,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// DetailsFor builds the details payload for role r.
func DetailsFor(r Role, s1 Step1Fields, s2 Step2Fields) Details {
	d := Details{Step2Fields: s2}
	if r.AttachesIdentity() {
		d.Email = s1.Email
		d.EmployeeID = s1.EmployeeID
	}
	return d
}
