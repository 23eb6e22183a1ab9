// Package pipeline implements the three-stage answer transform:
// rewrite the question, retrieve context, answer from context.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/plugin/ai"
	"github.com/askdesk/askdesk/plugin/ai/prompt"
	"github.com/askdesk/askdesk/plugin/ai/timeout"
	"github.com/askdesk/askdesk/plugin/ai/vector"
)

// DefaultTopK is the number of documents handed to the answer stage.
const DefaultTopK = 4

// Config tunes a Pipeline. The zero value is usable.
type Config struct {
	TopK          int
	RewritePrompt *prompt.Template
	AnswerPrompt  *prompt.Template
}

// Pipeline turns a user question into an answer grounded in retrieved
// documents. The stages run strictly in sequence: retrieval sees the
// rewritten question, the answer stage sees the original one. Search works
// better on a disambiguated query; the answer should address exactly what
// the user asked.
type Pipeline struct {
	llm    ai.LLMService
	search vector.SearchService
	config Config
}

// New creates a Pipeline.
func New(llm ai.LLMService, search vector.SearchService, config Config) *Pipeline {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.RewritePrompt == nil {
		config.RewritePrompt = prompt.StandaloneQuestion
	}
	if config.AnswerPrompt == nil {
		config.AnswerPrompt = prompt.Answer
	}
	return &Pipeline{
		llm:    llm,
		search: search,
		config: config,
	}
}

// Answer resolves a question to an answer string. Stage failures never
// escape: any error resolves to prompt.ErrorFallback, and the returned
// string is always non-empty.
func (p *Pipeline) Answer(ctx context.Context, question string) string {
	answer, err := p.run(ctx, question)
	if err != nil {
		slog.Warn("answer pipeline failed",
			"error", err,
			"question_length", len(question))
		return prompt.ErrorFallback
	}
	if answer == "" {
		return prompt.ErrorFallback
	}
	return answer
}

func (p *Pipeline) run(ctx context.Context, question string) (string, error) {
	standalone, err := p.rewrite(ctx, question)
	if err != nil {
		return "", errors.Wrap(err, "rewrite stage")
	}

	docContext, err := p.retrieve(ctx, standalone)
	if err != nil {
		return "", errors.Wrap(err, "retrieval stage")
	}

	answer, err := p.answer(ctx, docContext, question)
	if err != nil {
		return "", errors.Wrap(err, "answer stage")
	}

	return strings.TrimSpace(answer), nil
}

// rewrite restates the question as a standalone query.
func (p *Pipeline) rewrite(ctx context.Context, question string) (string, error) {
	rendered, err := p.config.RewritePrompt.Render(map[string]string{"Question": question})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout.RewriteTimeout)
	defer cancel()

	standalone, err := p.llm.Chat(ctx, []ai.Message{ai.UserMessage(rendered)})
	if err != nil {
		return "", err
	}

	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		// Fall back to the raw question rather than searching for nothing.
		standalone = question
	}
	return standalone, nil
}

// retrieve fetches the top-K documents for the standalone question and joins
// their texts with a blank line, preserving rank order. Zero hits yield an
// empty context, not an error.
func (p *Pipeline) retrieve(ctx context.Context, standalone string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.RetrieveTimeout)
	defer cancel()

	docs, err := p.search.Search(ctx, standalone, p.config.TopK)
	if err != nil {
		return "", err
	}
	return CombineDocuments(docs), nil
}

// answer produces the final answer from the retrieved context and the
// original, non-rewritten question.
func (p *Pipeline) answer(ctx context.Context, docContext, question string) (string, error) {
	rendered, err := p.config.AnswerPrompt.Render(map[string]string{
		"Context":  docContext,
		"Question": question,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout.AnswerTimeout)
	defer cancel()

	return p.llm.Chat(ctx, []ai.Message{ai.UserMessage(rendered)})
}

// CombineDocuments joins document texts with a blank-line separator in rank
// order.
func CombineDocuments(docs []vector.Document) string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	return strings.Join(texts, "\n\n")
}
