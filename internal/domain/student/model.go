package student

// Student is the profile row behind admin reports. The live stress fields
// are optional snapshots pushed by the client; nil means unknown.
type Student struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Department       string   `json:"department,omitempty"`
	YearLevel        string   `json:"year_level,omitempty"`
	StudentNumber    string   `json:"student_number,omitempty"`
	StressPercentage *float64 `json:"stress_percentage,omitempty"`
	StressLevel      *float64 `json:"stress_level,omitempty"`
}

// ListOptions filters student listings.
type ListOptions struct {
	Department string
}
