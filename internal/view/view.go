// Package view renders the landing page around the IP status section.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	texttemplate "text/template"

	"ecoip/internal/status"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*
var templateFS embed.FS

// Config represents page configuration. Empty copy fields fall back to the
// catalogue of the matched locale.
type Config struct {
	Locale     string   `mapstructure:"locale" validate:"locale"`
	Title      string   `mapstructure:"title"`
	Stats      Stats    `mapstructure:"stats"`
	Trivia     []Fact   `mapstructure:"trivia" validate:"dive"`
	Actions    []Action `mapstructure:"actions" validate:"dive"`
	EventsPath string   `mapstructure:"events_path"`
}

// DefaultConfig returns the default page configuration
func DefaultConfig() *Config {
	return &Config{
		Locale:     "en",
		Stats:      DefaultStats(),
		EventsPath: "/events",
	}
}

type pageData struct {
	Lang       string
	Copy       catalog
	Section    status.Output
	Animals    string
	Trees      string
	Plastic    string
	Live       bool
	EventsPath string
}

// Renderer renders the page and the status section. Safe for concurrent use.
type Renderer struct {
	lang    language.Tag
	copy    catalog
	display *status.Display
	html    *template.Template
	text    *texttemplate.Template
	animals string
	trees   string
	plastic string
	events  string
}

// New creates a renderer for cfg
func New(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	lang, c := matchLocale(cfg.Locale)
	if cfg.Title != "" {
		c.Title = cfg.Title
	}
	if len(cfg.Trivia) > 0 {
		c.Trivia = cfg.Trivia
	}
	if len(cfg.Actions) > 0 {
		c.Actions = cfg.Actions
	}

	html, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/page.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}

	events := cfg.EventsPath
	if events == "" {
		events = "/events"
	}

	p := message.NewPrinter(lang)
	return &Renderer{
		lang:    lang,
		copy:    c,
		display: status.NewDisplay(c.Pending, c.Failure),
		html:    html,
		text:    text,
		animals: formatCount(p, cfg.Stats.AnimalsSaved),
		trees:   formatMillions(p, cfg.Stats.TreesPlanted),
		plastic: formatWeight(cfg.Stats.PlasticRemoved, c.PlasticUnit),
		events:  events,
	}, nil
}

// Language returns the matched page language
func (r *Renderer) Language() language.Tag {
	return r.lang
}

// Section renders the IP status section
func (r *Renderer) Section(s status.Status) status.Output {
	return r.display.Render(s)
}

// WritePage writes the full HTML page. A pending page subscribes to the
// events stream so it updates when the lookup finishes.
func (r *Renderer) WritePage(w io.Writer, s status.Status) error {
	return r.html.ExecuteTemplate(w, "page.html.tmpl", r.data(s))
}

// WriteText writes the page as plain text
func (r *Renderer) WriteText(w io.Writer, s status.Status) error {
	return r.text.ExecuteTemplate(w, "page.txt.tmpl", r.data(s))
}

func (r *Renderer) data(s status.Status) pageData {
	return pageData{
		Lang:       r.lang.String(),
		Copy:       r.copy,
		Section:    r.Section(s),
		Animals:    r.animals,
		Trees:      r.trees,
		Plastic:    r.plastic,
		Live:       !s.Terminal(),
		EventsPath: r.events,
	}
}
