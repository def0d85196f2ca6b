// Package input models the issues file and maps its records to wire requests.
package input

// Issue is one record of the issues file.
type Issue struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Labels    []string  `json:"labels"`
	Assignees []string  `json:"assignees"`
	Milestone *int      `json:"milestone"`
	Comments  []Comment `json:"comments"`
}

// Comment is a comment posted after its issue is created.
type Comment struct {
	Body string `json:"body"`
}
