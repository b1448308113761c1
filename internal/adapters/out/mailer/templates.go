package mailer

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"sendit/internal/core/ports"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

var ErrUnknownTemplate = errors.New("mailer: no template for notification kind")

type templateSpec struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type templateFile struct {
	Templates map[string]templateSpec `yaml:"templates"`
}

type compiled struct {
	subject *template.Template
	body    *template.Template
}

// Templates renders notifications into a subject line and a plain-text body.
type Templates struct {
	byKind map[ports.NotificationKind]compiled
}

// DefaultTemplates returns the built-in set.
func DefaultTemplates() (Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// ParseTemplates reads a YAML document of the form
//
//	templates:
//	  <kind>:
//	    subject: "..."
//	    body: "..."
//
// Missing keys render as empty strings.
func ParseTemplates(input []byte) (Templates, error) {
	var file templateFile
	if err := yaml.Unmarshal(input, &file); err != nil {
		return Templates{}, fmt.Errorf("decode templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return Templates{}, errors.New("decode templates: no templates defined")
	}

	t := Templates{byKind: make(map[ports.NotificationKind]compiled, len(file.Templates))}
	for kind, spec := range file.Templates {
		if strings.TrimSpace(spec.Subject) == "" {
			return Templates{}, fmt.Errorf("template %s: subject is required", kind)
		}

		subject, err := template.New(kind + ".subject").Option("missingkey=zero").Parse(spec.Subject)
		if err != nil {
			return Templates{}, fmt.Errorf("template %s: %w", kind, err)
		}
		body, err := template.New(kind + ".body").Option("missingkey=zero").Parse(spec.Body)
		if err != nil {
			return Templates{}, fmt.Errorf("template %s: %w", kind, err)
		}
		t.byKind[ports.NotificationKind(kind)] = compiled{subject: subject, body: body}
	}
	return t, nil
}

type templateData struct {
	Name string
	Data map[string]string
}

// Render returns the subject and body for n.
func (t Templates) Render(n ports.Notification) (string, string, error) {
	c, ok := t.byKind[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, n.Kind)
	}

	data := templateData{Name: n.RecipientName, Data: n.Data}
	if data.Data == nil {
		data.Data = map[string]string{}
	}

	var subject, body strings.Builder
	if err := c.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", n.Kind, err)
	}
	if err := c.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", n.Kind, err)
	}

	// Header injection guard: a subject is a single line.
	return strings.Join(strings.Fields(subject.String()), " "), body.String(), nil
}
