// internal/types/slippage.go
package types

import "math"

// SlippageType определяет тип политики проскальзывания
type SlippageType string

const (
	// SlippageFixed использует фиксированное значение minOutputAmount
	SlippageFixed SlippageType = "fixed"
	// SlippagePercent использует процент от ожидаемого выхода
	SlippagePercent SlippageType = "percent"
	// SlippageNone не использует ограничение minOutputAmount
	SlippageNone SlippageType = "none"
)

// SlippageConfig конфигурирует политику проскальзывания
type SlippageConfig struct {
	// Type определяет тип политики проскальзывания
	Type SlippageType `json:"type" mapstructure:"type"`
	// Value содержит значение для выбранной политики:
	// - для SlippageFixed: точное значение minOutputAmount в сырых единицах
	// - для SlippagePercent: процент допустимого проскальзывания (например, 1.0 = 1%)
	// - для SlippageNone: игнорируется
	Value float64 `json:"value" mapstructure:"value"`
}

// MinOutputAmount вычисляет нижнюю границу выхода для buy/sell по котировке
func MinOutputAmount(quoted uint64, config SlippageConfig) uint64 {
	switch config.Type {
	case SlippageFixed:
		if config.Value <= 0 {
			return 0
		}
		return uint64(config.Value)
	case SlippagePercent:
		// если проскальзывание 1% (value = 1.0), минимум будет 99% от котировки
		multiplier := 1.0 - (config.Value / 100.0)
		if multiplier <= 0 {
			return 0
		}
		return uint64(math.Floor(float64(quoted) * multiplier))
	default:
		// Движок принимает 0 как "без ограничения"
		return 0
	}
}
