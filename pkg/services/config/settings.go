package config

import (
	"fmt"
	"slices"
	"time"
	"strings"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Summary SummarySettings `mapstructure:"summary"`
	Columns ColumnSettings  `mapstructure:"columns"`
	Sheets  SheetSettings   `mapstructure:"sheets"`
	Export  ExportSettings  `mapstructure:"export"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	// RefreshInterval reloads sources in the background; zero reloads on every request.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type SummarySettings struct {
	Preset     string   `mapstructure:"preset"`
	Attributes []string `mapstructure:"attributes"`
}

type ColumnSettings struct {
	Year       string `mapstructure:"year"`
	Month      string `mapstructure:"month"`
	Revenue    string `mapstructure:"revenue"`
	DirectCost string `mapstructure:"direct_cost"`
	FixedCost  string `mapstructure:"fixed_cost"`
	// Attributes maps attribute name to source column.
	Attributes map[string]string `mapstructure:"attributes"`
}

// AttributeNames lists the configured attributes, well-known ones first.
func (c ColumnSettings) AttributeNames() []string {
	var names, extra []string
	for _, name := range domain.DefaultAttributes {
		if _, ok := c.Attributes[name]; ok {
			names = append(names, name)
		}
	}
	for name := range c.Attributes {
		if !slices.Contains(domain.DefaultAttributes, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

type SheetSettings struct {
	Revenue    string `mapstructure:"revenue"`
	DirectCost string `mapstructure:"direct_cost"`
	FixedCost  string `mapstructure:"fixed_cost"`
}

type ExportSettings struct {
	Sheet string `mapstructure:"sheet"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.refresh_interval", time.Minute)
	v.SetDefault("summary.preset", "full")
	v.SetDefault("summary.attributes", domain.DefaultAttributes)
	v.SetDefault("columns.year", "ANO")
	v.SetDefault("columns.month", "MES")
	v.SetDefault("columns.revenue", "RECEITA")
	v.SetDefault("columns.direct_cost", "CUSTO_DIRETO")
	v.SetDefault("columns.fixed_cost", "CUSTO_FIXO")
	v.SetDefault("columns.attributes", map[string]string{
		domain.AttributeCovenant:     "CONVENIO",
		domain.AttributeSpecialty:    "ESPECIALIDADE",
		domain.AttributePractitioner: "MEDICO",
	})
	v.SetDefault("sheets.revenue", "df_receitas")
	v.SetDefault("sheets.direct_cost", "df_custos_diretos")
	v.SetDefault("sheets.fixed_cost", "df_custos_fixos")
	v.SetDefault("export.sheet", "Sheet1")
}

// LoadSettings reads settings from an optional YAML file. Environment
// variables prefixed with ATLAS_ override file values, e.g.
// ATLAS_SERVER_PORT or ATLAS_SUMMARY_PRESET.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}
