// Package display turns command results into a flat, render-ready model
// shared by the terminal, text and JSON renderers.
package display

// Symbols used in front of rows
const (
	SymbolOK      = "✓"
	SymbolPending = "→"
	SymbolSkip    = "-"
	SymbolFail    = "✗"
)

// Result is what a renderer draws for one command
type Result struct {
	Command string  `json:"command"`
	DryRun  bool    `json:"dryRun"`
	Header  *Header `json:"header,omitempty"`
	// Intro is printed before the rows
	Intro   string `json:"intro,omitempty"`
	Rows    []Row  `json:"rows"`
	Empty   string `json:"empty,omitempty"`
	Summary string `json:"summary"`
	// Notes follow the summary, one per line
	Notes   []string `json:"notes,omitempty"`
	Success bool     `json:"success"`
}

// Header is the environment block printed above results
type Header struct {
	Repository string `json:"repository"`
	Config     string `json:"config"`
	Home       string `json:"home"`
	Backups    string `json:"backups,omitempty"`
	// Fallback is set when the repository is the working directory
	Fallback bool `json:"fallback,omitempty"`
}

// Row is one entry or link
type Row struct {
	// Status is a style name: Success, Info, Warning or Error
	Status string `json:"status"`
	Symbol string `json:"-"`
	Action string `json:"action"`
	Target string `json:"target"`
	Source string `json:"source,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}
