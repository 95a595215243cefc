package wizard

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	GigCreation            = "gig_creation"
	ProfessionalOnboarding = "professional_onboarding"
	ClientOnboarding       = "client_onboarding"
)

var (
	ErrUnknownWizard    = errors.New("unknown wizard")
	ErrUnknownStep      = errors.New("unknown step")
	ErrStepNotSkippable = errors.New("step is not optional")
)

//go:embed definitions.yaml
var definitionsYAML []byte

type Step struct {
	Name     string   `yaml:"name" json:"name"`
	Form     string   `yaml:"form" json:"-"`
	Optional bool     `yaml:"optional" json:"optional"`
	Fields   []string `yaml:"fields" json:"fields"`
}

// Owns reports whether the step is the one that writes the named field.
func (s Step) Owns(field string) bool {
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}

type Definition struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Exit            string `yaml:"exit" json:"exit"`
	SuccessRedirect string `yaml:"success_redirect" json:"success_redirect"`
	Steps           []Step `yaml:"steps" json:"steps"`
}

func (d *Definition) First() Step {
	return d.Steps[0]
}

func (d *Definition) Last() Step {
	return d.Steps[len(d.Steps)-1]
}

func (d *Definition) Index(name string) (int, error) {
	for i, s := range d.Steps {
		if s.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s/%s", ErrUnknownStep, d.ID, name)
}

func (d *Definition) Step(name string) (Step, error) {
	i, err := d.Index(name)
	if err != nil {
		return Step{}, err
	}
	return d.Steps[i], nil
}

// Next returns the step after name; ok is false on the last step.
func (d *Definition) Next(name string) (Step, bool, error) {
	i, err := d.Index(name)
	if err != nil {
		return Step{}, false, err
	}
	if i == len(d.Steps)-1 {
		return Step{}, false, nil
	}
	return d.Steps[i+1], true, nil
}

// Prev returns the step before name; ok is false on the first step.
func (d *Definition) Prev(name string) (Step, bool, error) {
	i, err := d.Index(name)
	if err != nil {
		return Step{}, false, err
	}
	if i == 0 {
		return Step{}, false, nil
	}
	return d.Steps[i-1], true, nil
}

// Fields lists every field owned by any step of the wizard.
func (d *Definition) Fields() []string {
	var out []string
	for _, s := range d.Steps {
		out = append(out, s.Fields...)
	}
	return out
}

type Registry struct {
	wizards map[string]*Definition
	order   []string
}

func LoadDefinitions(data []byte) (*Registry, error) {
	var doc struct {
		Wizards []*Definition `yaml:"wizards"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse wizard definitions: %w", err)
	}

	r := &Registry{wizards: make(map[string]*Definition)}
	for _, def := range doc.Wizards {
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.wizards[def.ID]; dup {
			return nil, fmt.Errorf("wizard %s defined twice", def.ID)
		}
		r.wizards[def.ID] = def
		r.order = append(r.order, def.ID)
	}
	return r, nil
}

// DefaultRegistry returns the wizards compiled into the binary.
func DefaultRegistry() (*Registry, error) {
	return LoadDefinitions(definitionsYAML)
}

func (r *Registry) Get(id string) (*Definition, error) {
	def, ok := r.wizards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWizard, id)
	}
	return def, nil
}

func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.wizards[id])
	}
	return out
}

func (d *Definition) validate() error {
	if d.ID == "" {
		return fmt.Errorf("wizard without id")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("wizard %s has no steps", d.ID)
	}
	if d.Steps[0].Optional {
		return fmt.Errorf("wizard %s: first step cannot be optional", d.ID)
	}

	stepNames := map[string]bool{}
	owners := map[string]string{}
	for _, s := range d.Steps {
		if s.Name == "" {
			return fmt.Errorf("wizard %s has a step without a name", d.ID)
		}
		if stepNames[s.Name] {
			return fmt.Errorf("wizard %s: step %s defined twice", d.ID, s.Name)
		}
		stepNames[s.Name] = true

		if len(s.Fields) > 0 && s.Form == "" {
			return fmt.Errorf("wizard %s: step %s owns fields but has no form", d.ID, s.Name)
		}
		if s.Form != "" {
			if _, ok := forms[s.Form]; !ok {
				return fmt.Errorf("wizard %s: step %s uses unknown form %s", d.ID, s.Name, s.Form)
			}
		}
		for _, f := range s.Fields {
			if other, taken := owners[f]; taken {
				return fmt.Errorf("wizard %s: field %s owned by both %s and %s", d.ID, f, other, s.Name)
			}
			owners[f] = s.Name
		}
	}
	return nil
}
