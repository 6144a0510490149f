package port

import "context"

// BackgroundWorkerPort - фоновый процесс, который живет вместе с приложением.
type BackgroundWorkerPort interface {
	// Start блокируется до отмены контекста или фатальной ошибки.
	Start(ctx context.Context) error
	Close() error
}
