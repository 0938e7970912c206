package output

// SummaryInfo — сводка результатов команды.
type SummaryInfo struct {
	KeyMetrics    []KeyMetric `json:"key_metrics,omitempty"`
	WarningsCount int         `json:"warnings_count"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// KeyMetric — одна ключевая метрика сводки.
type KeyMetric struct {
	// Name — название, например "Каналов".
	Name string `json:"name"`
	// Value — значение строкой: "3", "2 из 3".
	Value string `json:"value"`
	// Unit — единица измерения, может быть пустой.
	Unit string `json:"unit,omitempty"`
}

// NewSummaryInfo создаёт пустую сводку.
func NewSummaryInfo() *SummaryInfo {
	return &SummaryInfo{
		KeyMetrics: make([]KeyMetric, 0),
		Warnings:   make([]string, 0),
	}
}

// AddMetric добавляет метрику.
func (s *SummaryInfo) AddMetric(name, value, unit string) {
	s.KeyMetrics = append(s.KeyMetrics, KeyMetric{Name: name, Value: value, Unit: unit})
}

// AddWarning добавляет предупреждение.
func (s *SummaryInfo) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
	s.WarningsCount++
}
