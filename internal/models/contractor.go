package models

// Contractor представляет профиль подрядчика.
type Contractor struct {
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	Company       string       `json:"company,omitempty" yaml:"company"`
	Role          string       `json:"role" yaml:"role"`
	Location      string       `json:"location,omitempty" yaml:"location"`
	Rating        float64      `json:"rating" yaml:"rating"`
	CompletedJobs int          `json:"completedJobs" yaml:"completed_jobs"`
	Bio           string       `json:"bio" yaml:"bio"`
	Skills        []string     `json:"skills" yaml:"skills"`
	History       []JobSummary `json:"history" yaml:"history"`
}

// JobSummary - краткая запись о выполненной работе в профиле подрядчика.
type JobSummary struct {
	Title  string  `json:"title" yaml:"title"`
	Date   string  `json:"date" yaml:"date"`
	Amount int64   `json:"amount" yaml:"amount"`
	Rating float64 `json:"rating" yaml:"rating"`
}
