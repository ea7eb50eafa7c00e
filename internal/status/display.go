package status

import (
	"bytes"
	"html/template"
)

const (
	DefaultPendingText = "loading..."
	DefaultFailureText = "Failed to get IP"
)

var sectionTemplate = template.Must(template.New("status").Parse(
	`{{if eq .Branch "pending"}}<span class="skeleton" aria-busy="true"><code>{{.Text}}</code></span>` +
		`{{else if eq .Branch "failed"}}<span class="status-error" role="alert">{{.Text}}</span>` +
		`{{else}}<code class="status-value">{{.Text}}</code>{{end}}`))

// Output is the rendering of one status
type Output struct {
	Branch Branch
	Text   string
	HTML   template.HTML
}

// Display renders lookup statuses. It holds only the fixed texts and can be
// shared between goroutines.
type Display struct {
	PendingText string
	FailureText string
}

// NewDisplay creates a display with the given texts, falling back to the
// defaults for empty ones
func NewDisplay(pendingText, failureText string) *Display {
	if pendingText == "" {
		pendingText = DefaultPendingText
	}
	if failureText == "" {
		failureText = DefaultFailureText
	}
	return &Display{PendingText: pendingText, FailureText: failureText}
}

// Render selects exactly one branch for s. The failure reason is never
// rendered and a ready value is passed through untouched.
func (d *Display) Render(s Status) Output {
	out := Output{Branch: s.Branch()}
	switch out.Branch {
	case BranchPending:
		out.Text = d.PendingText
	case BranchFailed:
		out.Text = d.FailureText
	default:
		out.Text = s.value
	}

	var buf bytes.Buffer
	// The template only branches on a known value; execution cannot fail.
	_ = sectionTemplate.Execute(&buf, out)
	out.HTML = template.HTML(buf.String())
	return out
}
