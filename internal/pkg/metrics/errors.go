package metrics

import "errors"

var (
	// ErrPushgatewayURLRequired — метрики включены, но не указан ни Pushgateway, ни listenAddr.
	ErrPushgatewayURLRequired = errors.New("metrics: pushgateway URL or listen address is required when metrics enabled")

	// ErrJobNameRequired — не указано имя job.
	ErrJobNameRequired = errors.New("metrics: job name is required")

	// ErrInvalidTimeout — невалидный таймаут.
	ErrInvalidTimeout = errors.New("metrics: timeout must be positive")

	// ErrPushgatewayURLInvalid — URL Pushgateway имеет невалидный формат.
	ErrPushgatewayURLInvalid = errors.New("metrics: pushgateway URL has invalid format")
)
