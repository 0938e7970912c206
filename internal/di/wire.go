//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/logmonitor/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideOutputWriter,
	ProvideTraceID,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideAuditClient,
	ProvideRouter,
	ProvideSlogHook,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт App по загруженному Config (см. config.Load).
// Реализация генерируется в wire_gen.go.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
