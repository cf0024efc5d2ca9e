package workspace

import "time"

// Dataset records one profiled dataset attached to a workspace.
type Dataset struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Name        string    `json:"name"`
	ProfilePath string    `json:"profile_path,omitempty"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Kinds       KindCount `json:"kinds"`
	ProfiledAt  time.Time `json:"profiled_at"`
}

// KindCount tallies a dataset's columns by kind.
type KindCount struct {
	Numerical   int `json:"numerical"`
	Categorical int `json:"categorical"`
	Datetime    int `json:"datetime"`
	Other       int `json:"other"`
}
