// Package prompt holds the named prompt templates that define the assistant's
// behavior. The templates are configuration, not code: swapping one changes
// what the assistant says without touching the pipeline.
package prompt

import (
	"strings"
	"text/template"
)

// DontKnowSentence is the answer the model is instructed to give when the
// retrieved context cannot answer the question. This is a prompt-level
// instruction, not enforced by code.
const DontKnowSentence = `I am sorry, I do not know the answer to that. Please contact at 1234567890.`

// ErrorFallback is what the user sees when any pipeline stage fails.
const ErrorFallback = "Sorry, something went wrong."

// Template is a named, swappable prompt template.
type Template struct {
	name string
	tmpl *template.Template
}

// MustParse parses a template and panics on malformed text. Templates are
// package-level values, so a bad one should fail at startup, not per request.
func MustParse(name, text string) *Template {
	return &Template{
		name: name,
		tmpl: template.Must(template.New(name).Parse(text)),
	}
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Render fills the template with data.
func (t *Template) Render(data any) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// StandaloneQuestion rewrites a (possibly conversational) question into a
// standalone query for retrieval.
var StandaloneQuestion = MustParse("standalone_question",
	`Given a question, convert it to a standalone question. question: {{.Question}} standalone question:`)

// Answer produces the final answer strictly from the retrieved context.
var Answer = MustParse("answer",
	`You are a helpful and enthusiastic support bot who can answer a given question based on the context provided.
If you don't know the answer, say, "`+DontKnowSentence+`"
context: {{.Context}}
question: {{.Question}}
answer:`)
