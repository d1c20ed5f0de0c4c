package domain

import (
	"strings"
	"time"
)

// Course is one of the programmes a student can be enrolled in.
type Course string

const (
	CourseComputerScience Course = "Computer Science"
	CourseBusinessAdmin   Course = "Business Administration"
	CourseEngineering     Course = "Engineering"
	CourseMedicine        Course = "Medicine"
	CourseArtsHumanities  Course = "Arts & Humanities"
	CourseMathematics     Course = "Mathematics"
	CoursePhysics         Course = "Physics"
	CourseOther           Course = "Other"
)

// Courses lists the accepted courses in display order.
var Courses = []Course{
	CourseComputerScience,
	CourseBusinessAdmin,
	CourseEngineering,
	CourseMedicine,
	CourseArtsHumanities,
	CourseMathematics,
	CoursePhysics,
	CourseOther,
}

// IsValidCourse reports whether s names one of Courses exactly.
func IsValidCourse(s string) bool {
	for _, c := range Courses {
		if string(c) == s {
			return true
		}
	}
	return false
}

// StudentStatus is the enrolment state of a student.
type StudentStatus string

const (
	StatusActive    StudentStatus = "active"
	StatusInactive  StudentStatus = "inactive"
	StatusGraduated StudentStatus = "graduated"
)

// Store-level defaults, applied when a write does not carry the field.
const (
	DefaultCourse = CourseOther
	DefaultStatus = StatusActive
	DefaultGPA    = 0.0
)

// Student is an enrolled individual. The validate tags describe the
// constraints the store enforces on every write.
type Student struct {
	ID             string        `json:"_id"`
	Name           string        `json:"name" validate:"required,max=100"`
	Email          string        `json:"email" validate:"required,email"`
	Course         Course        `json:"course" validate:"required,course"`
	Age            int           `json:"age" validate:"min=16,max=60"`
	Phone          string        `json:"phone,omitempty" validate:"omitempty,len=10,number"`
	Address        string        `json:"address,omitempty" validate:"omitempty,max=200"`
	EnrollmentDate time.Time     `json:"enrollmentDate"`
	Status         StudentStatus `json:"status" validate:"required,oneof=active inactive graduated"`
	GPA            float64       `json:"gpa" validate:"min=0,max=4"`
	CreatedBy      string        `json:"createdBy,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// DisplayID returns the short human-facing id, e.g. "SD-3F2A".
func (s *Student) DisplayID() string {
	id := s.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "SD-" + strings.ToUpper(id)
}

// IsOwned reports whether the record was created by an authenticated user.
func (s *Student) IsOwned() bool {
	return s.CreatedBy != ""
}

// StudentInput is the typed payload for create and update. It is produced
// only by the validation package after the raw request body passed
// ValidateStudentInput. Optional fields are nil when absent from the body.
type StudentInput struct {
	Name           string
	Email          string
	Course         Course
	Age            int
	Phone          *string
	Address        *string
	EnrollmentDate *time.Time
	Status         *StudentStatus
	GPA            *float64
}

// NewStudent builds a record from in, filling the store defaults.
func NewStudent(in StudentInput, owner *Identity, now time.Time) *Student {
	s := &Student{
		Course:         DefaultCourse,
		Status:         DefaultStatus,
		GPA:            DefaultGPA,
		EnrollmentDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Apply(in)
	if owner != nil {
		s.CreatedBy = owner.UserID
	}
	return s
}

// Apply copies the fields carried by in onto s. Optional fields that are
// absent leave the stored value untouched.
func (s *Student) Apply(in StudentInput) {
	s.Name = in.Name
	s.Email = in.Email
	if in.Course != "" {
		s.Course = in.Course
	}
	s.Age = in.Age
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.EnrollmentDate != nil {
		s.EnrollmentDate = *in.EnrollmentDate
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	if in.GPA != nil {
		s.GPA = *in.GPA
	}
}

// CountByKey is one bucket of a grouped count.
type CountByKey struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

// StudentStats is the dashboard summary for one owner.
type StudentStats struct {
	Total           int64        `json:"total"`
	ByCourse        []CountByKey `json:"byCourse"`
	ByStatus        []CountByKey `json:"byStatus"`
	AverageAge      float64      `json:"averageAge"`
	RecentAdditions int64        `json:"recentAdditions"`
}

// RecentWindow is how far back StudentStats.RecentAdditions looks.
const RecentWindow = 7 * 24 * time.Hour

// SortField names a sortable student attribute.
type SortField string

const (
	SortByName           SortField = "name"
	SortByEmail          SortField = "email"
	SortByCourse         SortField = "course"
	SortByAge            SortField = "age"
	SortByStatus         SortField = "status"
	SortByGPA            SortField = "gpa"
	SortByEnrollmentDate SortField = "enrollmentDate"
	SortByCreatedAt      SortField = "createdAt"
	SortByUpdatedAt      SortField = "updatedAt"
)

var sortFields = map[SortField]struct{}{
	SortByName: {}, SortByEmail: {}, SortByCourse: {}, SortByAge: {}, SortByStatus: {},
	SortByGPA: {}, SortByEnrollmentDate: {}, SortByCreatedAt: {}, SortByUpdatedAt: {},
}

// Sort orders a student listing.
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: SortByCreatedAt, Desc: true}

// ParseSort reads a "field:dir" expression. The direction defaults to
// ascending; only "desc" flips it. An empty expression or an unknown field
// yields DefaultSort.
func ParseSort(expr string) Sort {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return DefaultSort
	}
	field, dir, _ := strings.Cut(expr, ":")
	f := SortField(strings.TrimSpace(field))
	if _, ok := sortFields[f]; !ok {
		return DefaultSort
	}
	return Sort{Field: f, Desc: strings.TrimSpace(dir) == "desc"}
}
