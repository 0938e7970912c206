package logmonitor

import (
	"testing"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"

	"github.com/stretchr/testify/assert"
)

func TestEventFilter_Decide(t *testing.T) {
	enabled := alerting.Config{Enabled: true, Environments: "production, staging"}

	tests := []struct {
		name string
		cfg  alerting.Config
		env  string
		evt  LogEvent
		md   RoutingMetadata
		want string
	}{
		{name: "error принимается", cfg: enabled, env: "production", evt: LogEvent{Level: "error"}},
		{name: "ERROR без учёта регистра", cfg: enabled, env: "staging", evt: LogEvent{Level: "ERROR"}},
		{name: "info отбрасывается", cfg: enabled, env: "production", evt: LogEvent{Level: "info"}, want: DropLevel},
		{name: "critical отбрасывается", cfg: enabled, env: "production", evt: LogEvent{Level: "critical"}, want: DropLevel},
		{name: "info с alert принимается", cfg: enabled, env: "production", evt: LogEvent{Level: "info"}, md: RoutingMetadata{Alert: true}},
		{name: "мониторинг выключен", cfg: alerting.Config{Environments: "production"}, env: "production", evt: LogEvent{Level: "error"}, want: DropDisabled},
		{name: "окружение не разрешено", cfg: enabled, env: "local", evt: LogEvent{Level: "error"}, want: DropEnvironment},
		{name: "окружение регистрозависимо", cfg: enabled, env: "Production", evt: LogEvent{Level: "error"}, want: DropEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewEventFilter(tt.cfg, tt.env)
			assert.Equal(t, tt.want, f.Decide(tt.evt, tt.md))
			assert.Equal(t, tt.want == "", f.ShouldProcess(tt.evt, tt.md))
		})
	}
}
