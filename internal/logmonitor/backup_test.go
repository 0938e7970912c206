package logmonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSendEmail(t *testing.T) {
	ok := DeliveryOutcome{Succeeded: true}
	failed := DeliveryOutcome{Err: errDeliveryFailed}

	tests := []struct {
		name           string
		sendAsBackup   bool
		primaryEnabled bool
		outcomes       []DeliveryOutcome
		want           bool
	}{
		{name: "резерв и ошибка", sendAsBackup: true, primaryEnabled: true, outcomes: []DeliveryOutcome{ok, failed}, want: true},
		{name: "резерв и успех", sendAsBackup: true, primaryEnabled: true, outcomes: []DeliveryOutcome{ok, ok}},
		{name: "резерв без доставок", sendAsBackup: true, primaryEnabled: true},
		{name: "не резерв и успех", sendAsBackup: false, primaryEnabled: true, outcomes: []DeliveryOutcome{ok}, want: true},
		{name: "не резерв и ошибка", sendAsBackup: false, primaryEnabled: true, outcomes: []DeliveryOutcome{failed}, want: true},
		{name: "чат выключен", sendAsBackup: true, primaryEnabled: false, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSendEmail(tt.sendAsBackup, tt.primaryEnabled, tt.outcomes))
		})
	}
}
