package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development gets the console encoder,
// everything else structured JSON. All three binaries share the "tourdesk"
// name so log pipelines can filter on it.
func New(env string) *zap.Logger {
	if env == "development" {
		l, _ := zap.NewDevelopment()
		return l.Named("tourdesk")
	}
	l, _ := zap.NewProduction()
	return l.Named("tourdesk")
}
