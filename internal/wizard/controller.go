package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gigexecs-backend/internal/drafts"

	"github.com/go-playground/validator/v10"
)

// RestartError is returned when a step other than the first is entered
// without a draft. The caller should send the user to Step.
type RestartError struct {
	Wizard string
	Step   string
}

func (e *RestartError) Error() string {
	return fmt.Sprintf("no draft for %s: restart at step %s", e.Wizard, e.Step)
}

// StepView is what a client needs to render one step.
type StepView struct {
	Wizard   string                     `json:"wizard"`
	Step     Step                       `json:"step"`
	Index    int                        `json:"index"`
	Total    int                        `json:"total"`
	Previous string                     `json:"previous,omitempty"`
	Next     string                     `json:"next,omitempty"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// Transition is the result of continue, back and skip. Exactly one of Step
// and Redirect is set: Redirect when leaving the wizard.
type Transition struct {
	Step     string `json:"next_step,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Controller drives step navigation for every wizard. It holds no per-user
// state; everything a step writes goes to the draft store.
type Controller struct {
	registry *Registry
	store    drafts.Store
	validate *validator.Validate
}

func NewController(registry *Registry, store drafts.Store) *Controller {
	return &Controller{
		registry: registry,
		store:    store,
		validate: newValidator(),
	}
}

func (c *Controller) Registry() *Registry {
	return c.registry
}

func (c *Controller) Enter(ctx context.Context, key drafts.Key, stepName string) (*StepView, error) {
	def, step, idx, err := c.lookup(key.Wizard, stepName)
	if err != nil {
		return nil, err
	}

	draft, err := c.store.Load(ctx, key)
	switch {
	case errors.Is(err, drafts.ErrNotFound) && idx == 0:
		if err := c.store.Save(ctx, key, map[string]json.RawMessage{}); err != nil {
			return nil, fmt.Errorf("failed to start draft: %w", err)
		}
		draft = &drafts.Draft{Key: key, Fields: map[string]json.RawMessage{}}
	case errors.Is(err, drafts.ErrNotFound):
		return nil, &RestartError{Wizard: def.ID, Step: def.First().Name}
	case err != nil:
		return nil, err
	}

	view := &StepView{
		Wizard: def.ID,
		Step:   step,
		Index:  idx,
		Total:  len(def.Steps),
		Fields: visibleFields(def, step, draft),
	}
	if prev, ok, _ := def.Prev(step.Name); ok {
		view.Previous = prev.Name
	}
	if next, ok, _ := def.Next(step.Name); ok {
		view.Next = next.Name
	}
	return view, nil
}

// Continue validates the step's own fields and, if they pass, saves them and
// moves forward. Fields the step does not own are ignored.
func (c *Controller) Continue(ctx context.Context, key drafts.Key, stepName string, input map[string]json.RawMessage) (*Transition, error) {
	def, step, _, err := c.lookup(key.Wizard, stepName)
	if err != nil {
		return nil, err
	}

	draft, err := c.loadForStep(ctx, def, step, key)
	if err != nil {
		return nil, err
	}

	owned := ownedFields(step, input)
	candidate := map[string]json.RawMessage{}
	for _, f := range step.Fields {
		if v, ok := draft.Fields[f]; ok {
			candidate[f] = v
		}
	}
	for f, v := range owned {
		candidate[f] = v
	}

	if err := validateForm(c.validate, step, candidate); err != nil {
		return nil, err
	}

	if len(owned) > 0 {
		if err := c.store.Save(ctx, key, owned); err != nil {
			return nil, fmt.Errorf("failed to save draft: %w", err)
		}
	}

	next, ok, _ := def.Next(step.Name)
	if !ok {
		return &Transition{Step: step.Name}, nil
	}
	return &Transition{Step: next.Name}, nil
}

// Back moves to the previous step without validating anything. Fields sent
// along are kept so nothing typed on the step is lost. Like every other step
// action it needs a draft past the first step.
func (c *Controller) Back(ctx context.Context, key drafts.Key, stepName string, input map[string]json.RawMessage) (*Transition, error) {
	def, step, _, err := c.lookup(key.Wizard, stepName)
	if err != nil {
		return nil, err
	}
	if _, err := c.loadForStep(ctx, def, step, key); err != nil {
		return nil, err
	}

	if owned := ownedFields(step, input); len(owned) > 0 {
		if err := c.store.Save(ctx, key, owned); err != nil {
			return nil, fmt.Errorf("failed to save draft: %w", err)
		}
	}

	prev, ok, _ := def.Prev(step.Name)
	if !ok {
		return &Transition{Redirect: def.Exit}, nil
	}
	return &Transition{Step: prev.Name}, nil
}

// Skip moves forward past an optional step without touching its fields.
func (c *Controller) Skip(ctx context.Context, key drafts.Key, stepName string) (*Transition, error) {
	def, step, _, err := c.lookup(key.Wizard, stepName)
	if err != nil {
		return nil, err
	}
	if !step.Optional {
		return nil, fmt.Errorf("%w: %s", ErrStepNotSkippable, step.Name)
	}
	if _, err := c.loadForStep(ctx, def, step, key); err != nil {
		return nil, err
	}

	next, ok, _ := def.Next(step.Name)
	if !ok {
		return &Transition{Step: step.Name}, nil
	}
	return &Transition{Step: next.Name}, nil
}

func (c *Controller) Discard(ctx context.Context, key drafts.Key) error {
	if _, err := c.registry.Get(key.Wizard); err != nil {
		return err
	}
	return c.store.Clear(ctx, key)
}

// Hydrate merges externally sourced values (for example a parsed CV) into a
// draft, restricted to fields the wizard knows about.
func (c *Controller) Hydrate(ctx context.Context, key drafts.Key, fields map[string]json.RawMessage) error {
	def, err := c.registry.Get(key.Wizard)
	if err != nil {
		return err
	}
	known := map[string]json.RawMessage{}
	for _, f := range def.Fields() {
		if v, ok := fields[f]; ok {
			known[f] = v
		}
	}
	return c.store.Save(ctx, key, known)
}

func (c *Controller) lookup(wizardID, stepName string) (*Definition, Step, int, error) {
	def, err := c.registry.Get(wizardID)
	if err != nil {
		return nil, Step{}, 0, err
	}
	idx, err := def.Index(stepName)
	if err != nil {
		return nil, Step{}, 0, err
	}
	return def, def.Steps[idx], idx, nil
}

// loadForStep returns the draft, or an empty one on the first step.
func (c *Controller) loadForStep(ctx context.Context, def *Definition, step Step, key drafts.Key) (*drafts.Draft, error) {
	draft, err := c.store.Load(ctx, key)
	if errors.Is(err, drafts.ErrNotFound) {
		if step.Name == def.First().Name {
			return &drafts.Draft{Key: key, Fields: map[string]json.RawMessage{}}, nil
		}
		return nil, &RestartError{Wizard: def.ID, Step: def.First().Name}
	}
	return draft, err
}

func ownedFields(step Step, input map[string]json.RawMessage) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	for name, v := range input {
		if step.Owns(name) {
			out[name] = v
		}
	}
	return out
}

// visibleFields is the step's own fields, or the whole draft on a step that
// owns none (the review step).
func visibleFields(def *Definition, step Step, draft *drafts.Draft) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if len(step.Fields) == 0 {
		for _, f := range def.Fields() {
			if v, ok := draft.Fields[f]; ok {
				out[f] = v
			}
		}
		return out
	}
	for _, f := range step.Fields {
		if v, ok := draft.Fields[f]; ok {
			out[f] = v
		}
	}
	return out
}
