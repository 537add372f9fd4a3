package config

// LogLevel selects the minimum level the zap logger emits.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level livepad configuration, corresponding to .livepad.yml.
type Config struct {
	Port             int      `yaml:"port" koanf:"port"`
	DataDir          string   `yaml:"data_dir" koanf:"data_dir"`
	DebounceMS       int      `yaml:"debounce_ms" koanf:"debounce_ms"`
	NoticeMS         int      `yaml:"notice_ms" koanf:"notice_ms"`
	DetachedNoticeMS int      `yaml:"detached_notice_ms" koanf:"detached_notice_ms"`
	ExportName       string   `yaml:"export_name" koanf:"export_name"`
	AllowAllOrigins  bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	OpenBrowser      bool     `yaml:"open_browser" koanf:"open_browser"`
	LogLevel         LogLevel `yaml:"log_level" koanf:"log_level"`
	Import           Import   `yaml:"import" koanf:"import"`
}

// Import holds the glob patterns used to find fragment files on disk.
type Import struct {
	Markup string `yaml:"markup" koanf:"markup"`
	Style  string `yaml:"style" koanf:"style"`
	Script string `yaml:"script" koanf:"script"`
}
