package core

// RoleDescriptor names an assignment: which tier a teacher occupies and the
// cell it covers. Batch/Year/Semester apply to tutor and year-in-charge
// roles; Section and the roll range only to tutors.
type RoleDescriptor struct {
	Role         Tier   `json:"role"`
	TeacherID    string `json:"teacher_id"`
	DepartmentID string `json:"department_id"`
	Batch        string `json:"batch,omitempty"`
	Year         int    `json:"year,omitempty"`
	Semester     int    `json:"semester,omitempty"`
	Section      string `json:"section,omitempty"`
	StartRollNo  int    `json:"start_roll_no,omitempty"`
	EndRollNo    int    `json:"end_roll_no,omitempty"`
}

func (d RoleDescriptor) Validate() error {
	switch d.Role {
	case TierTutor, TierYearInCharge, TierHOD:
	default:
		return Errorf(KindInvalidRoleTransition, "unknown role %q", d.Role.String())
	}
	if d.TeacherID == "" {
		return Errorf(KindValidation, "teacher is required")
	}
	if d.DepartmentID == "" {
		return Errorf(KindValidation, "department is required")
	}
	if d.Role == TierHOD {
		return nil
	}
	if d.Batch == "" {
		return Errorf(KindValidation, "batch is required")
	}
	if err := CheckYearSemester(d.Year, d.Semester); err != nil {
		return err
	}
	if d.Role == TierTutor {
		if d.Section == "" {
			return Errorf(KindValidation, "section is required")
		}
		if d.StartRollNo < 1 {
			return Errorf(KindValidation, "start roll no is required")
		}
		if d.EndRollNo < d.StartRollNo {
			return Errorf(KindValidation, "end roll no must not precede start roll no")
		}
	}
	return nil
}

// cell is the student-matching view of the descriptor.
func (d RoleDescriptor) cell() StudentCell {
	c := StudentCell{
		DepartmentID: d.DepartmentID,
		Batch:        d.Batch,
		Year:         d.Year,
		Semester:     d.Semester,
	}
	if d.Role == TierTutor {
		c.Section = d.Section
		c.StartRollNo = d.StartRollNo
		c.EndRollNo = d.EndRollNo
	}
	return c
}

// CheckYearSemester enforces the year/semester pairing: years 1-4 map to
// their two regular semesters, years 5 and 6 (supplementary and
// lateral-entry cohorts) accept any semester.
func CheckYearSemester(year, semester int) error {
	if year < 1 || year > 6 {
		return Errorf(KindValidation, "year must be between 1 and 6, got %d", year)
	}
	if semester < 1 || semester > 8 {
		return Errorf(KindValidation, "semester must be between 1 and 8, got %d", semester)
	}
	if year <= 4 {
		odd := year*2 - 1
		if semester != odd && semester != odd+1 {
			return Errorf(KindValidation, "year %d expects semester %d or %d, got %d", year, odd, odd+1, semester)
		}
	}
	return nil
}
