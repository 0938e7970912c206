package logmonitor

// ShouldSendEmail решает, отправлять ли письма после основного канала.
//
// Без режима резерва письма уходят всегда. В режиме резерва только если
// хотя бы одна доставка в чат не удалась. Если чат выключен, email
// остаётся единственным каналом и срабатывает всегда.
func ShouldSendEmail(sendAsBackup, primaryEnabled bool, outcomes []DeliveryOutcome) bool {
	if !sendAsBackup || !primaryEnabled {
		return true
	}
	return anyFailed(outcomes)
}
