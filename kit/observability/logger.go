package observability

import "go.uber.org/zap"

// Logger is a thin structured-logging facade over zap so call sites stay
// decoupled from the backend.
type Logger struct {
	l *zap.SugaredLogger
}

func NewLogger() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{l: z.Sugar()}
}

func NewNopLogger() *Logger {
	return &Logger{l: zap.NewNop().Sugar()}
}

func (lg *Logger) Info(msg string, kv ...any) {
	lg.l.Infow(msg, kv...)
}

func (lg *Logger) Error(msg string, kv ...any) {
	lg.l.Errorw(msg, kv...)
}

func (lg *Logger) Sync() error {
	return lg.l.Sync()
}
