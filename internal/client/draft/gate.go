package draft

import "context"

type Choice int

const (
	ContinueEditing Choice = iota
	DiscardChanges
)

// Prompter shows the two-action confirmation modal.
type Prompter interface {
	Confirm(ctx context.Context) (Choice, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (Choice, error)

func (f PrompterFunc) Confirm(ctx context.Context) (Choice, error) { return f(ctx) }

// Gate intercepts back navigation while there are unsaved changes.
type Gate struct {
	dirty   func() bool
	prompt  Prompter
	discard func()
	back    func()
}

func NewGate(dirty func() bool, prompt Prompter, discard func(), back func()) *Gate {
	if discard == nil {
		discard = func() {}
	}
	if back == nil {
		back = func() {}
	}
	return &Gate{dirty: dirty, prompt: prompt, discard: discard, back: back}
}

// RequestBack navigates back immediately when clean. Otherwise it asks; on
// Discard the draft is dropped before leaving. It reports whether the screen
// was left.
func (g *Gate) RequestBack(ctx context.Context) (bool, error) {
	if !g.dirty() {
		g.back()
		return true, nil
	}
	choice, err := g.prompt.Confirm(ctx)
	if err != nil {
		return false, err
	}
	if choice != DiscardChanges {
		return false, nil
	}
	g.discard()
	g.back()
	return true, nil
}
