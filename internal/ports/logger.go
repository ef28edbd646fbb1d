package ports

import "context"

// Logger — логгер сервиса выгрузки; поля запроса (request_id, subject) берутся из ctx.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any)
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
