package ports

import "context"

// ArtifactStore — одноразовые токены на скачивание файлов выгрузки.
// Реализация должна быть потокобезопасной: токен погашается ровно один раз.
type ArtifactStore interface {
	// Issue — выпустить токен, привязанный к имени файла.
	Issue(ctx context.Context, filename string) (string, error)

	// Redeem — погасить токен; неверный, чужой или уже использованный — domain.ErrUnauthorized.
	Redeem(ctx context.Context, filename, token string) error
}
