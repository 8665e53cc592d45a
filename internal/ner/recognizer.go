// Package ner adapts named-entity recognizers to the label -> spans map the
// analysis pipeline consumes. The recognizer engine itself is external.
package ner

import (
	"context"
	"fmt"
	"sync"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Recognizer labels entity mentions in text
type Recognizer interface {
	// Name returns the backend name
	Name() string

	// Recognize returns span texts grouped by label, in order of appearance
	Recognize(ctx context.Context, text string) (model.Entities, error)
}

// Factory builds a recognizer
type Factory func() (Recognizer, error)

// Lazy builds its recognizer on first use, exactly once, and shares it
// read-only afterwards. A construction error is returned on every call.
type Lazy struct {
	name    string
	factory Factory

	once sync.Once
	rec  Recognizer
	err  error
}

// NewLazy wraps factory
func NewLazy(name string, factory Factory) *Lazy {
	return &Lazy{name: name, factory: factory}
}

// Name returns the backend name
func (l *Lazy) Name() string {
	return l.name
}

// Recognize builds the recognizer if needed and delegates to it
func (l *Lazy) Recognize(ctx context.Context, text string) (model.Entities, error) {
	rec, err := l.get()
	if err != nil {
		return nil, err
	}
	return rec.Recognize(ctx, text)
}

func (l *Lazy) get() (Recognizer, error) {
	l.once.Do(func() {
		l.rec, l.err = l.factory()
		if l.err != nil {
			l.err = fmt.Errorf("initialize %s recognizer: %w", l.name, l.err)
		}
	})
	return l.rec, l.err
}

// StaticRecognizer returns pre-computed entities regardless of the text
type StaticRecognizer struct {
	entities model.Entities
}

// NewStaticRecognizer creates a recognizer that always returns entities
func NewStaticRecognizer(entities model.Entities) *StaticRecognizer {
	return &StaticRecognizer{entities: entities}
}

// Name returns the backend name
func (s *StaticRecognizer) Name() string {
	return "static"
}

// Recognize returns a copy of the configured entities
func (s *StaticRecognizer) Recognize(ctx context.Context, text string) (model.Entities, error) {
	out := make(model.Entities, len(s.entities))
	for label, spans := range s.entities {
		out[label] = append([]string(nil), spans...)
	}
	return out, nil
}

// New builds the recognizer named by cfg.Kind behind a Lazy guard
func New(cfg model.RecognizerConfig) (Recognizer, error) {
	switch cfg.Kind {
	case "", "rules":
		return NewLazy("rules", func() (Recognizer, error) {
			return NewRuleRecognizer(cfg.RulesPath)
		}), nil
	case "remote":
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("remote recognizer requires recognizer.remote_url")
		}
		return NewLazy("remote", func() (Recognizer, error) {
			return NewRemoteRecognizer(cfg.RemoteURL, cfg.Timeout), nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown recognizer kind: %s (supported: rules, remote)", cfg.Kind)
	}
}
