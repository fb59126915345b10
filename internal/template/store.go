// Package template manages the message templates available to a batch. The
// built-in set ships in the binary; a YAML file can add templates or replace
// built-ins by name.
package template

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Variable documents one placeholder the renderer understands.
type Variable struct {
	Name        string
	Description string
}

// Variables lists every placeholder templates may reference, in display order.
func Variables() []Variable {
	return []Variable{
		{"{nombre}", "Nombre del cliente"},
		{"{matricula}", "Matrícula del vehículo (o múltiples matrículas si está consolidado)"},
		{"{hora}", "Hora de la reserva"},
		{"{fecha_actual}", "Fecha actual (dd-mm-yyyy)"},
		{"{ocupantes}", "Número de ocupantes del vehículo (o total si está consolidado)"},
		{"{reservas_count}", "Número de reservas (solo para contactos consolidados)"},
	}
}

// IsPickup reports whether a template drives a pickup run. Pickup templates
// change where the extractor looks for phone numbers (flight columns first).
func IsPickup(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "recogida")
}

type fileFormat struct {
	Default   string            `yaml:"default"`
	Templates map[string]string `yaml:"templates"`
}

// Store holds the merged template set.
type Store struct {
	templates   map[string]string
	defaultName string
}

// NewStore returns a store containing only the built-in templates, with
// RecordatorioCita as the default.
func NewStore() *Store {
	m := make(map[string]string, len(stockTemplates))
	for k, v := range stockTemplates {
		m[k] = v
	}
	return &Store{templates: m, defaultName: "RecordatorioCita"}
}

// Load builds a store from the built-ins overlaid with the YAML file at path.
// A missing file is not an error; the stock set is returned unchanged.
func Load(path string) (*Store, error) {
	s := NewStore()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, eris.Wrap(err, "template: read file")
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "template: parse yaml")
	}

	for name, body := range f.Templates {
		s.templates[name] = body
	}
	if f.Default != "" {
		if _, ok := s.templates[f.Default]; !ok {
			return nil, eris.Errorf("template: default %q not defined", f.Default)
		}
		s.defaultName = f.Default
	}
	return s, nil
}

// DefaultName returns the name used when no template is requested.
func (s *Store) DefaultName() string { return s.defaultName }

// Get returns the named template body.
func (s *Store) Get(name string) (string, bool) {
	body, ok := s.templates[name]
	return body, ok
}

// Lookup returns the named template, falling back to the default when the
// name is empty or unknown.
func (s *Store) Lookup(name string) (string, string) {
	if name != "" {
		if body, ok := s.templates[name]; ok {
			return name, body
		}
	}
	return s.defaultName, s.templates[s.defaultName]
}

// Names lists all templates: built-ins in display order first, then any
// file-added templates sorted by name.
func (s *Store) Names() []string {
	seen := make(map[string]bool, len(stockNames))
	out := make([]string, 0, len(s.templates))
	for _, n := range stockNames {
		if _, ok := s.templates[n]; ok {
			out = append(out, n)
			seen[n] = true
		}
	}
	var extra []string
	for n := range s.templates {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
