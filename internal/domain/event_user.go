package domain

import (
	"context"
	"time"
)

// Department is a registrant's affiliation category. Student departments have
// grade-specific sub-options; the fixed categories mirror the category as
// their grade.
type Department string

const (
	DepartmentMechanical   Department = "M"
	DepartmentElectrical   Department = "E"
	DepartmentCivil        Department = "C"
	DepartmentArchitecture Department = "A"
	DepartmentAdvanced     Department = "S"
	DepartmentGraduate     Department = "GRADUATE"
	DepartmentParent       Department = "PARENT"
	DepartmentTeacher      Department = "TEACHER"
	DepartmentOther        Department = "OTHER"
)

// Grade is a registrant's year within a department, or the fixed-category
// literal for non-student departments.
type Grade string

const (
	GradeFirst    Grade = "FIRST"
	GradeSecond   Grade = "SECOND"
	GradeThird    Grade = "THIRD"
	GradeFourth   Grade = "FOURTH"
	GradeFifth    Grade = "FIFTH"
	GradeJunior   Grade = "JUNIOR"
	GradeSenior   Grade = "SENIOR"
	GradeGraduate Grade = "GRADUATE"
	GradeParent   Grade = "PARENT"
	GradeTeacher  Grade = "TEACHER"
	GradeOther    Grade = "OTHER"
)

// gradesByDepartment enumerates the valid grades for each department.
var gradesByDepartment = map[Department][]Grade{
	DepartmentMechanical:   {GradeFirst, GradeSecond, GradeThird, GradeFourth, GradeFifth},
	DepartmentElectrical:   {GradeFirst, GradeSecond, GradeThird, GradeFourth, GradeFifth},
	DepartmentCivil:        {GradeFirst, GradeSecond, GradeThird, GradeFourth, GradeFifth},
	DepartmentArchitecture: {GradeFirst, GradeSecond, GradeThird, GradeFourth, GradeFifth},
	DepartmentAdvanced:     {GradeJunior, GradeSenior},
	DepartmentGraduate:     {GradeGraduate},
	DepartmentParent:       {GradeParent},
	DepartmentTeacher:      {GradeTeacher},
	DepartmentOther:        {GradeOther},
}

// ValidAffiliation reports whether the department/grade pair is one of the
// enumerated combinations.
func ValidAffiliation(d Department, g Grade) bool {
	for _, valid := range gradesByDepartment[d] {
		if g == valid {
			return true
		}
	}
	return false
}

// IsStudentDepartment reports whether the department requires a school email
// address.
func (d Department) IsStudentDepartment() bool {
	switch d {
	case DepartmentMechanical, DepartmentElectrical, DepartmentCivil,
		DepartmentArchitecture, DepartmentAdvanced:
		return true
	}
	return false
}

var departmentLabels = map[Department]string{
	DepartmentMechanical:   "M: Mechanical Engineering",
	DepartmentElectrical:   "E: Electrical and Information Engineering",
	DepartmentCivil:        "C: Civil and Environmental Engineering",
	DepartmentArchitecture: "A: Architecture",
	DepartmentAdvanced:     "S: Advanced Course",
	DepartmentGraduate:     "Graduate",
	DepartmentParent:       "Parent",
	DepartmentTeacher:      "Teacher",
	DepartmentOther:        "Other",
}

var gradeLabels = map[Grade]string{
	GradeFirst:  "1st year",
	GradeSecond: "2nd year",
	GradeThird:  "3rd year",
	GradeFourth: "4th year",
	GradeFifth:  "5th year",
	GradeJunior: "1st year",
	GradeSenior: "2nd year",
}

// EventUser is a person's registration identity. It is created once per
// registration attempt; registering twice creates two distinct rows.
// swagger:model EventUser
type EventUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Department Department `json:"department"`
	Grade      Grade      `json:"grade"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Affiliation derives the display label for the registrant's department and
// grade, applied to plain data after fetch.
func (u *EventUser) Affiliation() string {
	label, ok := departmentLabels[u.Department]
	if !ok {
		return string(u.Department)
	}
	if grade, ok := gradeLabels[u.Grade]; ok {
		return label + " (" + grade + ")"
	}
	return label
}

// EventUserRepository defines storage operations for registration identities.
type EventUserRepository interface {
	Create(ctx context.Context, u *EventUser) error
	GetByID(ctx context.Context, id string) (*EventUser, error)
}
