package config

import (
	"os"
	"path/filepath"
	"strings"

	domainerr "songbook/internal/domain/errors"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
	Serve ServeConfig `yaml:"serve"`
}

type SiteConfig struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Language string `yaml:"language"`
}

// ConflictPolicy 决定同名路径时静态文件和生成页面谁说了算。
type ConflictPolicy string

const (
	ConflictGenerated ConflictPolicy = "generated"
	ConflictStatic    ConflictPolicy = "static"
)

type BuildConfig struct {
	SourceDir      string         `yaml:"source_dir"`
	DestinationDir string         `yaml:"destination_dir"`
	Keep           []string       `yaml:"keep"`
	ConflictPolicy ConflictPolicy `yaml:"conflict_policy"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Songbook",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir:      ".",
			ConflictPolicy: ConflictGenerated,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// Destination 默认是 source 下的 site/ 目录。
func (c Config) Destination() string {
	if d := strings.TrimSpace(c.Build.DestinationDir); d != "" {
		return d
	}
	return filepath.Join(c.Build.SourceDir, "site")
}

func (c Config) SongsDir() string {
	return filepath.Join(c.Build.SourceDir, "songs")
}

func (c Config) TemplatesDir() string {
	return filepath.Join(c.Build.SourceDir, "templates")
}

func (c Config) StaticDir() string {
	return filepath.Join(c.Build.SourceDir, "static")
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}

	switch c.Build.ConflictPolicy {
	case "", ConflictGenerated, ConflictStatic:
	default:
		ve.Add("build.conflict_policy", "must be 'generated' or 'static'")
	}

	for _, keep := range c.Build.Keep {
		keep = strings.TrimSpace(keep)
		if keep == "" {
			ve.Add("build.keep", "entries must not be empty")
			continue
		}
		if filepath.IsAbs(keep) {
			ve.Add("build.keep", "entries must be relative to the destination: "+keep)
		}
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// LoadOrDefault 读取 songbook.yaml；文件里写到的字段覆盖默认值，
// 文件不存在就直接用默认配置。
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.ConflictPolicy == "" {
		cfg.Build.ConflictPolicy = ConflictGenerated
	}
	return cfg, nil
}
