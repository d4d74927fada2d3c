// Package warnings classifies raw warning events from the bundling
// engine: suppress, forward, or escalate to a fatal build error.
package warnings

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"go.trai.ch/zerr"
)

// Action is the classification outcome for one warning event.
type Action int

const (
	// ActionSuppressed means the warning was dropped as expected noise.
	ActionSuppressed Action = iota
	// ActionForwardedToUser means the user handler received the warning.
	ActionForwardedToUser
	// ActionForwardedToDefault means the default sink received the warning.
	ActionForwardedToDefault
	// ActionEscalatedFatal means the warning became a fatal build error.
	ActionEscalatedFatal
)

// dynamicImportPlugin is the plugin whose static-analysis warnings are
// expected, common and non-actionable.
const dynamicImportPlugin = "dynamic-import-vars"

// dynamicImportIgnorePhrases are the known message fragments of those
// warnings.
var dynamicImportIgnorePhrases = []string{
	"statically analyzed",
	"Unsupported expression",
}

// Classifier decides what happens to each warning the engine raises.
// Classification is pure except for one permitted disk read: the nearest
// package manifest of an unresolved import's importer.
type Classifier struct {
	fs             ports.FS
	allowConsumers []string
	userHandler    domain.WarningHandler
	defaultSink    domain.WarningSink
}

// NewClassifier creates a classifier. allowConsumers lists dependency
// package names permitted to import platform built-ins; userHandler may be
// nil; defaultSink must not be.
func NewClassifier(fs ports.FS, allowConsumers []string, userHandler domain.WarningHandler, defaultSink domain.WarningSink) *Classifier {
	return &Classifier{
		fs:             fs,
		allowConsumers: allowConsumers,
		userHandler:    userHandler,
		defaultSink:    defaultSink,
	}
}

// Classify applies the decision order, first match wins. A non-nil error
// means fatal escalation and travels up the assemble call's ordinary
// error channel.
func (c *Classifier) Classify(w domain.WarningEvent) (Action, error) {
	switch {
	case w.Code == domain.WarnUnresolvedImport:
		return c.classifyUnresolved(w)

	case w.Plugin == dynamicImportPlugin && matchesAny(w.Message, dynamicImportIgnorePhrases):
		return ActionSuppressed, nil

	case w.Code == domain.WarnCircularDependency, w.Code == domain.WarnThisIsUndefined:
		return ActionSuppressed, nil

	case c.userHandler != nil:
		c.userHandler(w, c.defaultSink)
		return ActionForwardedToUser, nil

	default:
		c.defaultSink(w)
		return ActionForwardedToDefault, nil
	}
}

// classifyUnresolved handles UNRESOLVED_IMPORT events. This path ends in
// either suppression (allow-listed built-in consumer) or a fatal error,
// never a mere warning: an unresolved import corrupts the output bundle.
func (c *Classifier) classifyUnresolved(w domain.WarningEvent) (Action, error) {
	if !IsNodeBuiltin(w.ID) {
		err := zerr.With(
			zerr.Wrap(domain.ErrUnresolvedImport, fmt.Sprintf(
				"failed to resolve import %q%s; if the module is meant to stay external at runtime, add it to build.rollupOptions.external",
				w.ID, importedBy(w.Importer))),
			"id", w.ID,
		)
		return ActionEscalatedFatal, &domain.BuildError{Err: err, Plugin: w.Plugin, ID: w.Importer, Loc: w.Loc, Frame: w.Frame}
	}

	consumer := c.consumingPackage(w.Importer)
	if consumer != "" && slices.Contains(c.allowConsumers, consumer) {
		return ActionSuppressed, nil
	}

	msg := fmt.Sprintf("module %q is a platform built-in and cannot be bundled for the browser", w.ID)
	if consumer != "" {
		msg = fmt.Sprintf("%s (imported by dependency %q)", msg, consumer)
	}
	err := zerr.With(zerr.Wrap(domain.ErrUnresolvedImport, msg), "id", w.ID)
	return ActionEscalatedFatal, &domain.BuildError{Err: err, Plugin: w.Plugin, ID: w.Importer, Loc: w.Loc, Frame: w.Frame}
}

// consumingPackage reads the importer's nearest package manifest to learn
// which dependency pulled in the built-in. Lookup failures degrade to an
// unknown consumer; they never mask the escalation decision.
func (c *Classifier) consumingPackage(importer string) string {
	if importer == "" {
		return ""
	}
	manifest, err := c.fs.NearestManifest(filepath.Dir(importer))
	if err != nil || manifest == nil {
		return ""
	}
	return manifest.Name
}

func importedBy(importer string) string {
	if importer == "" {
		return ""
	}
	return fmt.Sprintf(" from %q", importer)
}

func matchesAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
