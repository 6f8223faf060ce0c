package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Dashboard is the content shown by the dashboard screen
type Dashboard struct {
	Title    string        `json:"title" yaml:"title"`
	Subtitle string        `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Notes    string        `json:"notes,omitempty" yaml:"notes,omitempty"` // markdown
	Cards    []StatCard    `json:"cards,omitempty" yaml:"cards,omitempty"`
	Actions  []QuickAction `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Clone creates a deep copy of the dashboard
func (d Dashboard) Clone() Dashboard {
	clone := d
	if d.Cards != nil {
		clone.Cards = make([]StatCard, len(d.Cards))
		for i, c := range d.Cards {
			clone.Cards[i] = c.Clone()
		}
	}
	if d.Actions != nil {
		clone.Actions = make([]QuickAction, len(d.Actions))
		copy(clone.Actions, d.Actions)
	}
	return clone
}

// Validate checks if the dashboard data is logically valid
func (d *Dashboard) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("dashboard title cannot be empty")
	}
	cards := make(map[string]bool, len(d.Cards))
	for i := range d.Cards {
		c := &d.Cards[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
		if cards[c.ID] {
			return fmt.Errorf("duplicate card ID: %s", c.ID)
		}
		cards[c.ID] = true
	}
	actions := make(map[string]bool, len(d.Actions))
	keys := make(map[string]string, len(d.Actions))
	for i := range d.Actions {
		a := &d.Actions[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if actions[a.ID] {
			return fmt.Errorf("duplicate action ID: %s", a.ID)
		}
		actions[a.ID] = true
		if a.Key != "" {
			if other, ok := keys[a.Key]; ok {
				return fmt.Errorf("actions %s and %s share key %q", other, a.ID, a.Key)
			}
			keys[a.Key] = a.ID
		}
	}
	return nil
}

// StatCard is a single statistic tile
type StatCard struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Value   string    `json:"value" yaml:"value"`
	Unit    string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	History []float64 `json:"history,omitempty" yaml:"history,omitempty"`
	Tone    Tone      `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// Clone creates a deep copy of the card
func (c StatCard) Clone() StatCard {
	clone := c
	if c.History != nil {
		clone.History = make([]float64, len(c.History))
		copy(clone.History, c.History)
	}
	return clone
}

// Validate checks if the card data is logically valid
func (c *StatCard) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}
	if c.Title == "" {
		return fmt.Errorf("card %s title cannot be empty", c.ID)
	}
	if c.Tone != "" && !c.Tone.IsValid() {
		return fmt.Errorf("invalid tone: %s", c.Tone)
	}
	return nil
}

// Display returns the value with its unit
func (c StatCard) Display() string {
	if c.Unit == "" {
		return c.Value
	}
	return c.Value + " " + c.Unit
}

// Change returns the percent change of the latest history point against the
// mean of the points before it. Zero when there is not enough history or the
// baseline mean is zero.
func (c StatCard) Change() float64 {
	if len(c.History) < 2 {
		return 0
	}
	last := c.History[len(c.History)-1]
	base := stat.Mean(c.History[:len(c.History)-1], nil)
	if base == 0 || math.IsNaN(base) {
		return 0
	}
	return (last - base) / math.Abs(base) * 100
}

// Volatility returns the standard deviation of the history.
func (c StatCard) Volatility() float64 {
	if len(c.History) < 2 {
		return 0
	}
	return stat.StdDev(c.History, nil)
}

// Tone selects the accent of a card
type Tone string

const (
	ToneNeutral Tone = "neutral"
	TonePrimary Tone = "primary"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// IsValid returns true if the tone is a recognized value
func (t Tone) IsValid() bool {
	switch t {
	case ToneNeutral, TonePrimary, ToneSuccess, ToneWarning, ToneDanger:
		return true
	}
	return false
}

// QuickAction is an entry of the quick-actions panel
type QuickAction struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks if the action data is logically valid
func (a *QuickAction) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("action ID cannot be empty")
	}
	if a.Label == "" {
		return fmt.Errorf("action %s label cannot be empty", a.ID)
	}
	if len([]rune(a.Key)) > 1 {
		return fmt.Errorf("action %s key must be a single character, got %q", a.ID, a.Key)
	}
	return nil
}
