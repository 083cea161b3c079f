package domain

import "errors"

const DefaultPicture = "https://github.com/leafdevs.png"

var (
	ErrProfileFormsMismatch = errors.New("profile forms do not match account type")
	ErrProfileTaskTitle     = errors.New("profile task title is required")
)

type Task struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type StudentForms struct {
	Resume          bool `json:"resume"`
	Transcript      bool `json:"transcript"`
	Agreement       bool `json:"agreement"`
	BackgroundCheck bool `json:"background_check"`
}

type EmployerForms struct {
	EmployerAgreement    bool `json:"employer_agreement"`
	JobPostingGuidelines bool `json:"job_posting_guidelines"`
	InsuranceCertificate bool `json:"insurance_certificate"`
	BenefitsDescription  bool `json:"benefits_description"`
}

// Complete reports whether every agreement has been accepted.
func (f EmployerForms) Complete() bool {
	return f.EmployerAgreement && f.JobPostingGuidelines && f.InsuranceCertificate && f.BenefitsDescription
}

// Forms holds exactly one role-specific form set; administrators carry none.
type Forms struct {
	Student  *StudentForms  `json:"student,omitempty"`
	Employer *EmployerForms `json:"employer,omitempty"`
}

// Profile is the onboarding state stored alongside an account.
type Profile struct {
	Picture string `json:"pfp"`
	Forms   Forms  `json:"forms"`
	Tasks   []Task `json:"tasks"`
}

// AgreementUpdate is a partial update; nil flags are left untouched.
type AgreementUpdate struct {
	EmployerAgreement    *bool `json:"employer_agreement"`
	JobPostingGuidelines *bool `json:"job_posting_guidelines"`
	InsuranceCertificate *bool `json:"insurance_certificate"`
	BenefitsDescription  *bool `json:"benefits_description"`
}

func (u AgreementUpdate) Empty() bool {
	return u.EmployerAgreement == nil && u.JobPostingGuidelines == nil &&
		u.InsuranceCertificate == nil && u.BenefitsDescription == nil
}

func (f *EmployerForms) Apply(u AgreementUpdate) {
	if u.EmployerAgreement != nil {
		f.EmployerAgreement = *u.EmployerAgreement
	}
	if u.JobPostingGuidelines != nil {
		f.JobPostingGuidelines = *u.JobPostingGuidelines
	}
	if u.InsuranceCertificate != nil {
		f.InsuranceCertificate = *u.InsuranceCertificate
	}
	if u.BenefitsDescription != nil {
		f.BenefitsDescription = *u.BenefitsDescription
	}
}

func tasks(titles ...string) []Task {
	out := make([]Task, len(titles))
	for i, t := range titles {
		out[i] = Task{Title: t}
	}
	return out
}

// DefaultProfile returns the profile seeded at registration.
func DefaultProfile(role Role) Profile {
	p := Profile{Picture: DefaultPicture}
	switch role {
	case RoleStudent:
		p.Forms.Student = &StudentForms{}
		p.Tasks = tasks("Complete profile", "Upload resume", "Submit required forms")
	case RoleEmployer:
		p.Forms.Employer = &EmployerForms{}
		p.Tasks = tasks("Complete company profile", "Submit required documentation", "Post job opportunities")
	case RoleAdministrator:
		p.Tasks = tasks("Review pending postings")
	}
	return p
}

// Validate checks the structural shape of the profile against the role.
func (p Profile) Validate(role Role) error {
	hasStudent, hasEmployer := p.Forms.Student != nil, p.Forms.Employer != nil
	switch role {
	case RoleStudent:
		if !hasStudent || hasEmployer {
			return ErrProfileFormsMismatch
		}
	case RoleEmployer:
		if !hasEmployer || hasStudent {
			return ErrProfileFormsMismatch
		}
	default:
		if hasStudent || hasEmployer {
			return ErrProfileFormsMismatch
		}
	}
	for _, t := range p.Tasks {
		if t.Title == "" {
			return ErrProfileTaskTitle
		}
	}
	return nil
}
