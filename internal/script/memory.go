// Package script provides the conversation deck. Scripts are decoded from
// YAML once at startup and never change afterwards.
package script

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface check.
var _ domain.ScriptSource = (*MemorySource)(nil)

//go:embed scripts.yaml
var builtinDeck []byte

// MemorySource holds a decoded deck in memory. Safe for concurrent reads.
type MemorySource struct {
	mu   sync.RWMutex
	deck *domain.Deck
	log  *logger.Logger
}

// NewMemorySource creates a source preloaded with the built-in deck.
func NewMemorySource(log *logger.Logger) (*MemorySource, error) {
	return newSource(builtinDeck, "built-in deck", log)
}

// NewFileSource creates a source from a YAML file on disk.
func NewFileSource(path string, log *logger.Logger) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file: %w", err)
	}
	return newSource(data, path, log)
}

func newSource(data []byte, origin string, log *logger.Logger) (*MemorySource, error) {
	deck, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", origin, err)
	}
	for _, id := range []domain.ScriptID{domain.ScriptAI, domain.ScriptTherapist} {
		log.Debug("loaded script %s from %s (%d entries)", id, origin, deck.Scripts[id].Len())
	}
	return &MemorySource{deck: deck, log: log}, nil
}

// Deck returns the whole deck. Callers must not modify it.
func (s *MemorySource) Deck(ctx context.Context) (*domain.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deck, nil
}

// Get returns one script by ID.
func (s *MemorySource) Get(ctx context.Context, id domain.ScriptID) (*domain.Script, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.deck.Scripts[id]
	if !ok {
		s.log.Debug("script not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return sc, nil
}

// ── YAML document ────────────────────────────────────────────────

type deckDoc struct {
	Intro struct {
		Kicker string `yaml:"kicker"`
		Title  string `yaml:"title"`
		Body   string `yaml:"body"`
	} `yaml:"intro"`
	DivergenceTag string      `yaml:"divergence_tag"`
	Scripts       []scriptDoc `yaml:"scripts"`
}

type scriptDoc struct {
	ID           string     `yaml:"id"`
	Title        string     `yaml:"title"`
	Label        string     `yaml:"label"`
	SummaryTitle string     `yaml:"summary_title"`
	Summary      string     `yaml:"summary"`
	Entries      []entryDoc `yaml:"entries"`
}

type entryDoc struct {
	Speaker           string       `yaml:"speaker"`
	Text              string       `yaml:"text"`
	UserInterior      *interiorDoc `yaml:"user_interior"`
	TherapistInterior *interiorDoc `yaml:"therapist_interior"`
	AIProcess         string       `yaml:"ai_process"`
}

type interiorDoc struct {
	Body                string `yaml:"body"`
	Feeling             string `yaml:"feeling"`
	Projection          string `yaml:"projection"`
	Need                string `yaml:"need"`
	ClinicalThinking    string `yaml:"clinical_thinking"`
	Countertransference string `yaml:"countertransference"`
}

// Parse decodes and validates a deck document. Both the "ai" and the
// "therapist" scripts must be present and non-empty.
func Parse(data []byte) (*domain.Deck, error) {
	var doc deckDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	deck := &domain.Deck{
		Intro: domain.Intro{
			Kicker: doc.Intro.Kicker,
			Title:  doc.Intro.Title,
			Body:   doc.Intro.Body,
		},
		DivergenceTag: doc.DivergenceTag,
		Scripts:       make(map[domain.ScriptID]*domain.Script, len(doc.Scripts)),
	}

	for _, sd := range doc.Scripts {
		id, err := domain.ParseScriptID(sd.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := deck.Scripts[id]; dup {
			return nil, fmt.Errorf("script %s defined twice", id)
		}
		sc, err := convertScript(id, sd)
		if err != nil {
			return nil, err
		}
		deck.Scripts[id] = sc
	}

	for _, id := range []domain.ScriptID{domain.ScriptAI, domain.ScriptTherapist} {
		if _, ok := deck.Scripts[id]; !ok {
			return nil, fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
		}
	}
	return deck, nil
}

func convertScript(id domain.ScriptID, sd scriptDoc) (*domain.Script, error) {
	if len(sd.Entries) == 0 {
		return nil, fmt.Errorf("script %s: %w", id, domain.ErrEmptyScript)
	}

	sc := &domain.Script{
		ID:           id,
		Title:        sd.Title,
		Label:        sd.Label,
		SummaryTitle: sd.SummaryTitle,
		Summary:      strings.TrimSpace(sd.Summary),
		Entries:      make([]domain.DialogueEntry, 0, len(sd.Entries)),
	}
	if sc.Title == "" {
		sc.Title = string(id)
	}
	if sc.Label == "" {
		sc.Label = sc.Title
	}

	for i, ed := range sd.Entries {
		speaker, err := domain.ParseSpeaker(ed.Speaker)
		if err != nil {
			return nil, fmt.Errorf("script %s entry %d: %w", id, i, err)
		}
		sc.Entries = append(sc.Entries, domain.DialogueEntry{
			Speaker:           speaker,
			Text:              strings.TrimSpace(ed.Text),
			UserInterior:      convertInterior(ed.UserInterior),
			TherapistInterior: convertInterior(ed.TherapistInterior),
			AIProcess:         strings.TrimSpace(ed.AIProcess),
		})
	}
	return sc, nil
}

// convertInterior drops interiors with no content so they render as absent.
func convertInterior(d *interiorDoc) *domain.InteriorState {
	if d == nil {
		return nil
	}
	s := &domain.InteriorState{
		Body:                strings.TrimSpace(d.Body),
		Feeling:             strings.TrimSpace(d.Feeling),
		Projection:          strings.TrimSpace(d.Projection),
		Need:                strings.TrimSpace(d.Need),
		ClinicalThinking:    strings.TrimSpace(d.ClinicalThinking),
		Countertransference: strings.TrimSpace(d.Countertransference),
	}
	if *s == (domain.InteriorState{}) {
		return nil
	}
	return s
}
