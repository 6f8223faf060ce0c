package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "dashboard.yaml"

// LoadDashboard reads a dashboard from a .yaml/.yml or .jsonl file.
// An empty path means DefaultFileName in the current working directory.
func LoadDashboard(path string) (*model.Dashboard, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no dashboard found at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard file: %w", err)
	}

	var d *model.Dashboard
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = ParseYAML(data)
	case ".jsonl":
		d, err = ParseJSONL(data)
	default:
		return nil, fmt.Errorf("unsupported dashboard format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return d, nil
}

// ParseYAML decodes and validates a YAML dashboard. Unknown fields are rejected.
func ParseYAML(data []byte) (*model.Dashboard, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d model.Dashboard
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// jsonlRecord is one line of a JSONL dashboard. Kind selects which of the
// embedded parts is meaningful.
type jsonlRecord struct {
	Kind string `json:"kind"`
	model.StatCard
	Label       string `json:"label"`
	Key         string `json:"key"`
	Description string `json:"description"`
	Subtitle    string `json:"subtitle"`
	Notes       string `json:"notes"`
}

// ParseJSONL decodes a dashboard written as one JSON object per line, each
// tagged with kind "dashboard", "card" or "action". Malformed lines are skipped.
// Lines have no length limit, card history can be long.
func ParseJSONL(data []byte) (*model.Dashboard, error) {
	var d model.Dashboard

	for rest := data; len(rest) > 0; {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte{'\n'})
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		switch rec.Kind {
		case "dashboard":
			d.Title, d.Subtitle, d.Notes = rec.Title, rec.Subtitle, rec.Notes
		case "card":
			d.Cards = append(d.Cards, rec.StatCard.Clone())
		case "action":
			d.Actions = append(d.Actions, model.QuickAction{
				ID:          rec.ID,
				Label:       rec.Label,
				Key:         rec.Key,
				Description: rec.Description,
			})
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Sample returns the built-in demo dashboard.
func Sample() *model.Dashboard {
	return &model.Dashboard{
		Title:    "Dashboard",
		Subtitle: "Welcome back",
		Notes: "## Dashboard\n\n" +
			"Cards reflow with the terminal size: phones get one column in portrait, " +
			"tablets up to five in landscape.\n\n" +
			"Press `r` to refresh, `/` to filter actions, `y` to copy a value.",
		Cards: []model.StatCard{
			{ID: "revenue", Title: "Revenue", Value: "$24.5k", History: []float64{18, 19.5, 21, 22.4, 24.5}, Tone: model.ToneSuccess},
			{ID: "users", Title: "Active Users", Value: "1,284", History: []float64{1320, 1302, 1290, 1284}, Tone: model.TonePrimary},
			{ID: "orders", Title: "Orders", Value: "342", History: []float64{300, 310, 325, 342}, Tone: model.ToneNeutral},
			{ID: "latency", Title: "Latency", Value: "182", Unit: "ms", History: []float64{150, 160, 171, 182}, Tone: model.ToneWarning},
			{ID: "errors", Title: "Error Rate", Value: "0.8", Unit: "%", History: []float64{0.4, 0.5, 0.6, 0.8}, Tone: model.ToneDanger},
			{ID: "uptime", Title: "Uptime", Value: "99.98", Unit: "%", History: []float64{99.9, 99.95, 99.97, 99.98}, Tone: model.ToneSuccess},
		},
		Actions: []model.QuickAction{
			{ID: "report", Label: "New Report", Key: "n", Description: "Start a blank report"},
			{ID: "export", Label: "Export Data", Key: "e", Description: "Export the current figures"},
			{ID: "invite", Label: "Invite Team", Key: "i", Description: "Send an invitation link"},
			{ID: "settings", Label: "Settings", Key: "s", Description: "Open preferences"},
		},
	}
}
