package config

import (
	"errors"
	"io"
	"os"
	"time"

	"gomercuriale/config/values"

	"gopkg.in/yaml.v3"
)

type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

type StorageConfig struct {
	// Backend: memory, file, sqlite или postgres.
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	CartKey    string `yaml:"cart_key"`
	ColumnsKey string `yaml:"columns_key"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
	SheetName string `yaml:"sheet_name"`
}

type LoaderConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	// Timeout per catalog fetch, 0 for none.
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AppConfig struct {
	Sources  []SourceConfig       `yaml:"sources"`
	Fields   values.CatalogFields `yaml:"fields"`
	Storage  StorageConfig        `yaml:"storage"`
	Export   ExportConfig         `yaml:"export"`
	Loader   LoaderConfig         `yaml:"loader"`
	Log      LogConfig            `yaml:"log"`
	Postgres PostgresConfig       `yaml:"-"`
}

// DefaultConfig describes the four mercuriales shipped in data/.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Sources: []SourceConfig{
			{ID: "folkestone", Name: "Folkestone", Location: "data/mercuriale-folkestone.json"},
			{ID: "vendome", Name: "Vendôme", Location: "data/mercuriale-vendome.json"},
			{ID: "washington", Name: "Washington", Location: "data/mercuriale-washington.json"},
			{ID: "lehavre", Name: "Le Havre", Location: "data/mercuriale-lehavre.json"},
		},
		Fields: values.DefaultCatalogFields(),
		Storage: StorageConfig{
			Backend:    "sqlite",
			Path:       "mercuriale.db",
			CartKey:    "mercuriale_order_list",
			ColumnsKey: "mercuriale_visible_columns",
		},
		Export: ExportConfig{
			OutputDir: ".",
			SheetName: "Commande",
		},
		Loader: LoaderConfig{
			RequestsPerSecond: 10,
			Burst:             4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. A missing file is not an error.
func LoadConfig(filename string) (*AppConfig, error) {
	cfg := DefaultConfig()

	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.loadPostgres()
		}
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.Fields = cfg.Fields.WithDefaults()

	return cfg, cfg.loadPostgres()
}

func (c *AppConfig) loadPostgres() error {
	pg, err := GetPostgresConfig()
	if err != nil {
		return err
	}
	c.Postgres = *pg
	return nil
}
