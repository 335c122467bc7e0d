// This file loads the cost-table YAML file that tunes the graph's cost
// model, decoded with gopkg.in/yaml.v3. The service's other settings come
// from environment variables (see config.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"convroute/internal/domain/format"
	"convroute/internal/domain/graph"
)

// costTableFile is the on-disk shape of the cost-table configuration.
type costTableFile struct {
	CategoryChange []categoryChangeRow `yaml:"category_change"`
	Adaptive       []adaptiveRow       `yaml:"adaptive"`
}

type categoryChangeRow struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Handler string  `yaml:"handler,omitempty"`
	Cost    float64 `yaml:"cost"`
}

type adaptiveRow struct {
	Categories []string `yaml:"categories"`
	Cost       float64  `yaml:"cost"`
}

// LoadCostTables reads path and returns graph.DefaultCostTables() with the
// file's rows applied on top: a row whose key is already present replaces
// that row's cost, any other row is added. A missing file is not an error:
// the defaults are returned unchanged.
func LoadCostTables(path string) (*graph.CostTables, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.DefaultCostTables(), nil
		}
		return nil, fmt.Errorf("open cost table file: %w", err)
	}
	defer f.Close()

	var doc costTableFile
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cost table file: %w", err)
	}

	tables := graph.DefaultCostTables()
	for _, row := range doc.CategoryChange {
		tables.AddCategoryChangeCost(row.From, row.To, row.Handler, row.Cost)
	}
	for _, row := range doc.Adaptive {
		tables.AddCategoryAdaptiveCost(row.Categories, row.Cost)
	}
	return tables, nil
}

// WriteDefaultCostTableFile writes the shipped default tables to path, for
// operators bootstrapping a new environment's config directory.
func WriteDefaultCostTableFile(path string) error {
	doc := costTableFile{
		CategoryChange: []categoryChangeRow{
			{From: format.CategoryImage, To: format.CategoryVideo, Cost: 0.2},
			{From: format.CategoryVideo, To: format.CategoryImage, Cost: 0.4},
			{From: format.CategoryImage, To: format.CategoryAudio, Handler: "ffmpeg", Cost: 100},
			{From: format.CategoryAudio, To: format.CategoryImage, Handler: "ffmpeg", Cost: 100},
			{From: format.CategoryText, To: format.CategoryAudio, Handler: "ffmpeg", Cost: 100},
			{From: format.CategoryAudio, To: format.CategoryText, Handler: "ffmpeg", Cost: 100},
			{From: format.CategoryImage, To: format.CategoryAudio, Cost: 1.4},
			{From: format.CategoryAudio, To: format.CategoryImage, Cost: 1.0},
			{From: format.CategoryVideo, To: format.CategoryAudio, Cost: 1.4},
			{From: format.CategoryAudio, To: format.CategoryVideo, Cost: 1.0},
			{From: format.CategoryText, To: format.CategoryImage, Cost: 0.5},
			{From: format.CategoryImage, To: format.CategoryText, Cost: 0.5},
			{From: format.CategoryText, To: format.CategoryAudio, Cost: 0.6},
		},
		Adaptive: []adaptiveRow{
			{Categories: []string{format.CategoryText, format.CategoryImage, format.CategoryAudio}, Cost: 15},
			{Categories: []string{format.CategoryImage, format.CategoryVideo, format.CategoryAudio}, Cost: 10000},
			{Categories: []string{format.CategoryAudio, format.CategoryVideo, format.CategoryImage}, Cost: 10000},
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
