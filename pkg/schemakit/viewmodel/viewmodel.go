// Package viewmodel implements the observable facades for formula and
// control-rule editors: named properties a UI reads, and a subscription
// mechanism that notifies listeners when a named property's value may
// have changed. Both facades are pure CPU — no repository, no file
// system, no clock.
package viewmodel

import (
	"sync"

	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
)

// Translator resolves a translation key to a display string. It is the
// whole contract this layer holds against the external translation
// service; a nil Translator falls back to the raw key.
type Translator func(key ids.TranslationKey) string

// DependencyLabels renders a dependency list for display: each known
// field resolves its label key through translate, unknown fields fall
// back to their raw id.
func DependencyLabels(deps []formula.Dependency, labelKeys map[string]ids.TranslationKey, translate Translator) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		key, ok := labelKeys[d.FieldID]
		if !ok || translate == nil {
			out = append(out, d.FieldID)
			continue
		}
		out = append(out, translate(key))
	}
	return out
}

// notifier is the shared subscription mechanism: a set of listeners keyed
// by property name, invoked with no arguments on change. Subscribers are
// expected to re-read whichever properties they care about.
type notifier struct {
	mu        sync.Mutex
	listeners map[string][]func()
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[string][]func())}
}

// Subscribe registers fn to run whenever property changes. It returns an
// unsubscribe function.
func (n *notifier) Subscribe(property string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners[property] = append(n.listeners[property], fn)
	idx := len(n.listeners[property]) - 1
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		fns := n.listeners[property]
		if idx < len(fns) {
			fns[idx] = nil
		}
	}
}

func (n *notifier) notify(property string) {
	n.mu.Lock()
	fns := append([]func(){}, n.listeners[property]...)
	n.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

// dispose clears every subscription, satisfying the editor's dispose()
// contract.
func (n *notifier) dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = make(map[string][]func())
}
