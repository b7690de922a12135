package model

import "time"

// Job is a posting created by an employer.
type Job struct {
	ID           string    `json:"id"`
	EmployerID   string    `json:"employer_id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Skills       []string  `json:"skills"`
	CreatedAt    time.Time `json:"created_at"`
}

// SkillText is the text skills are extracted from.
func (j Job) SkillText() string {
	return j.Description + " " + j.Requirements
}

// JobSkills returns the skills of a job; it is the key function for ranking.
func JobSkills(j Job) []string { return j.Skills }

// Profile is a candidate's skill profile. Its absence means the candidate has
// no profile, which is different from a profile with no skills.
type Profile struct {
	UserID    string    `json:"user_id"`
	Skills    []string  `json:"skills"`
	ResumeID  string    `json:"resume_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
