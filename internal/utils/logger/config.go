// internal/utils/logger/config.go
package logger

type Config struct {
	LogFile     string `mapstructure:"file"`
	Level       string `mapstructure:"level"`    // debug, info, warn, error
	MaxSize     int    `mapstructure:"max_size"` // мегабайты
	MaxAge      int    `mapstructure:"max_age"`  // дни
	MaxBackups  int    `mapstructure:"max_backups"`
	Compress    bool   `mapstructure:"compress"` // сжимать ротированные файлы
	Development bool   `mapstructure:"development"`
	// TUI пишет только в файл, чтобы не ломать экран
	DisableConsole bool `mapstructure:"disable_console"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		LogFile:     "curved.log",
		Level:       "info",
		MaxSize:     100,  // 100 MB
		MaxAge:      7,    // 7 дней
		MaxBackups:  3,    // 3 файла
		Compress:    true, // сжимать старые логи
		Development: false,
	}
}
