package matching

// CandidateKind tags the variant of a candidate profile.
type CandidateKind string

const (
	KindStudent CandidateKind = "student"
	KindAlumnus CandidateKind = "alumnus"
)

// CandidateProfile is the closed set of candidate variants. Only StudentProfile and
// AlumnusProfile implement it.
type CandidateProfile interface {
	candidateKind() CandidateKind
}

// StudentProfile carries the academic attributes of a student candidate.
type StudentProfile struct {
	Level       string
	Field       string
	Institution string
}

func (StudentProfile) candidateKind() CandidateKind { return KindStudent }

// AlumnusProfile carries the career attributes of a graduated candidate. JobTitle and
// Employer are optional.
type AlumnusProfile struct {
	GraduationYear int
	JobTitle       string
	Employer       string
}

func (AlumnusProfile) candidateKind() CandidateKind { return KindAlumnus }

// Candidate is a student or alumnus looking for offers. ID is the 8-digit national identifier.
type Candidate struct {
	ID         string
	Name       string
	Surname    string
	Email      string
	Phone      string
	SecretHash string
	Profile    CandidateProfile
}

// Kind returns the variant tag, or an empty kind when no profile is attached.
func (c Candidate) Kind() CandidateKind {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.candidateKind()
}

// FullName joins name and surname for display.
func (c Candidate) FullName() string {
	switch {
	case c.Name == "":
		return c.Surname
	case c.Surname == "":
		return c.Name
	}
	return c.Name + " " + c.Surname
}
