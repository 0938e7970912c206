package logmonitor

import (
	"testing"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"

	"github.com/stretchr/testify/assert"
)

func TestResolveTargets(t *testing.T) {
	cfg := alerting.MattermostConfig{
		ChannelID: "default-id",
		AdditionalChannels: alerting.ChannelGroups{
			"payments": {"payments-id"},
			"critical": {"crit-1", "crit-2"},
			"alias1":   {"shared-id"},
			"alias2":   {"shared-id"},
			"dupe":     {"default-id"},
		},
	}

	tests := []struct {
		name     string
		channels []string
		want     []string
	}{
		{name: "без каналов", want: []string{"default-id"}},
		{name: "default", channels: []string{"default"}, want: []string{"default-id"}},
		{name: "группа списком", channels: []string{"critical"}, want: []string{"crit-1", "crit-2"}},
		{name: "default и payments", channels: []string{"default", "payments"}, want: []string{"default-id", "payments-id"}},
		{name: "алиасы одного канала", channels: []string{"alias1", "alias2"}, want: []string{"shared-id"}},
		{name: "группа совпадает с default", channels: []string{"dupe", "default"}, want: []string{"default-id"}},
		{name: "неизвестный канал", channels: []string{"nonexistent"}, want: []string{}},
		{name: "неизвестный пропускается", channels: []string{"nonexistent", "payments"}, want: []string{"payments-id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTargets(RoutingMetadata{Channels: tt.channels}, cfg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTargets_NoDefaultChannel(t *testing.T) {
	got := ResolveTargets(RoutingMetadata{}, alerting.MattermostConfig{})
	assert.Empty(t, got)
}
