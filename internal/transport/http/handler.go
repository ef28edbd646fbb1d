package rest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/pkg/filterform"
)

// maxFilterBody — предел размера тела запроса с фильтром.
const maxFilterBody = 1 << 20

// Handler — HTTP-обработчики выгрузки заказов.
type Handler struct {
	service ports.OrderExportService
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — конструктор; timeout ограничивает предпросмотр и выгрузку (0 — без ограничения).
func NewHandler(service ports.OrderExportService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

func (h *Handler) preview(c *gin.Context) {
	spec, err := readFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c.Request.Context())
	defer cancel()

	res, err := h.service.Preview(ctx, spec)
	if err != nil {
		h.log.Errorf(ctx, "preview failed: %v", err)
		writeError(c, err)
		return
	}

	writeOK(c, previewResponse{
		Data:       res.Rows,
		TotalCount: res.TotalCount,
		Columns:    res.Columns,
		Backend:    res.Backend,
	})
}

func (h *Handler) export(c *gin.Context) {
	spec, err := readFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c.Request.Context())
	defer cancel()

	res, err := h.service.Export(ctx, spec)
	if err != nil {
		h.log.Warnf(ctx, "export failed: %v", err)
		writeError(c, err)
		return
	}

	writeOK(c, exportResponse{
		Filename:    res.Filename,
		DownloadURL: downloadURL(c, res.Filename, res.DownloadToken),
		Count:       res.RowCount,
		Filesize:    units.HumanSizeWithPrecision(float64(res.FileSizeBytes), 3),
		Bytes:       res.FileSizeBytes,
	})
}

// download — отдаёт файл один раз; после отправки файл удаляется.
func (h *Handler) download(c *gin.Context) {
	filename := strings.TrimSpace(c.Query("file"))
	token := strings.TrimSpace(c.Query("token"))
	if filename == "" || token == "" {
		writeError(c, domain.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	dl, err := h.service.Download(ctx, filename, token)
	if err != nil {
		writeError(c, err)
		return
	}
	defer func() {
		if cerr := dl.Body.Close(); cerr != nil {
			h.log.Warnf(ctx, "close download %s: %v", dl.Filename, cerr)
		}
	}()

	c.Header("Content-Description", "File Transfer")
	c.Header("Cache-Control", "no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.DataFromReader(http.StatusOK, dl.Size, "text/csv; charset=utf-8", dl.Body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}),
	})
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// readFilter — фильтр из JSON-тела или формы (application/x-www-form-urlencoded, multipart).
func readFilter(c *gin.Context) (domain.FilterSpec, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFilterBody))
		if err != nil {
			return domain.FilterSpec{}, fmt.Errorf("%w: read body: %w", domain.ErrValidation, err)
		}
		return filterform.FromJSON(raw)
	}

	if err := c.Request.ParseMultipartForm(maxFilterBody); err != nil && err != http.ErrNotMultipart {
		return domain.FilterSpec{}, fmt.Errorf("%w: parse form: %w", domain.ErrValidation, err)
	}
	return filterform.FromValues(c.Request.Form), nil
}

// downloadURL — ссылка на скачивание. Токен доступа вызывающего переносится в access_token,
// чтобы ссылка открывалась браузером без заголовка Authorization.
func downloadURL(c *gin.Context, filename, token string) string {
	q := url.Values{}
	q.Set("file", filename)
	q.Set("token", token)
	if access, err := accessToken(c); err == nil {
		q.Set("access_token", access)
	}
	return "/api/orders/download?" + q.Encode()
}
