package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports/mocks"
	rest "github.com/Gunvolt24/wc_order_export/internal/transport/http"
)

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(svc *mocks.MockOrderExportService) *gin.Engine {
	h := rest.NewHandler(svc, noopLogger{}, 0)
	return rest.NewRouter(h, rest.AuthConfig{Disabled: true}, "")
}

func do(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestPreview_JSONBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)

	row := domain.OrderRow{Columns: []string{"Order_ID", "Status"}, Values: []any{int64(7), "completed"}}
	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec domain.FilterSpec) (*domain.PreviewResult, error) {
			if len(spec.Statuses) != 1 || spec.Statuses[0] != "wc-completed" {
				t.Fatalf("статусы не нормализованы: %v", spec.Statuses)
			}
			return &domain.PreviewResult{Rows: []domain.OrderRow{row}, TotalCount: 12, Columns: row.Columns, Backend: "hpos"}, nil
		})

	w := do(newRouter(svc), http.MethodPost, "/api/orders/preview", "application/json",
		`{"statuses":["completed"],"date_from":"2024-01-01","date_to":"2024-01-31"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}

	env := decode(t, w)
	var data struct {
		Data       []map[string]any `json:"data"`
		TotalCount int              `json:"total_count"`
		Columns    []string         `json:"columns"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if !env.Success || data.TotalCount != 12 || len(data.Data) != 1 || data.Data[0]["Status"] != "completed" {
		t.Fatalf("неожиданный ответ: %s", w.Body.String())
	}
	if strings.Index(w.Body.String(), `"Order_ID"`) > strings.Index(w.Body.String(), `"Status"`) {
		t.Fatalf("порядок колонок в строке должен сохраняться: %s", w.Body.String())
	}
}

func TestPreview_FormBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)

	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec domain.FilterSpec) (*domain.PreviewResult, error) {
			if spec.CustomerID != 5 || spec.IncludeItems {
				t.Fatalf("форма разобрана неверно: %+v", spec)
			}
			return &domain.PreviewResult{Rows: []domain.OrderRow{}, Columns: []string{}}, nil
		})

	form := url.Values{"customer_id": {"5"}, "include_items": {"0"}}
	w := do(newRouter(svc), http.MethodPost, "/api/orders/preview", "application/x-www-form-urlencoded", form.Encode())
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) || !strings.Contains(w.Body.String(), `"columns":[]`) {
		t.Fatalf("пустой предпросмотр должен отдавать пустые массивы: %s", w.Body.String())
	}
}

func TestPreview_MalformedJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)
	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Times(0)

	w := do(newRouter(svc), http.MethodPost, "/api/orders/preview", "application/json", `{"statuses":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
	if decode(t, w).Success {
		t.Fatalf("success должен быть false")
	}
}

func TestExport_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)

	svc.EXPECT().Export(gomock.Any(), gomock.Any()).Return(&domain.ExportResult{
		Filename:      "orders-export-2024-02-01-09-30-00.csv",
		DownloadToken: "tok-1",
		RowCount:      4,
		FileSizeBytes: 1536,
	}, nil)

	w := do(newRouter(svc), http.MethodPost, "/api/orders/export", "application/json", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}

	var data struct {
		Filename    string `json:"filename"`
		DownloadURL string `json:"download_url"`
		Count       int    `json:"count"`
		Filesize    string `json:"filesize"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data.Count != 4 || data.Filesize != "1.54kB" {
		t.Fatalf("неожиданный ответ: %+v", data)
	}
	u, err := url.Parse(data.DownloadURL)
	if err != nil || u.Path != "/api/orders/download" || u.Query().Get("token") != "tok-1" ||
		u.Query().Get("file") != data.Filename || u.Query().Has("access_token") {
		t.Fatalf("неверная ссылка на скачивание: %s", data.DownloadURL)
	}
}

func TestExport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"no_match", domain.ErrNoMatch, http.StatusNotFound, "No orders found matching the criteria."},
		{"query", errors.Join(domain.ErrQueryFailure, errors.New("timeout")), http.StatusInternalServerError, "Order query failed"},
		{"storage", domain.ErrStorageUnavailable, http.StatusInternalServerError, "Could not create export directory."},
		{"write", domain.ErrWriteFailure, http.StatusInternalServerError, "Could not create export file."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockOrderExportService(ctrl)
			svc.EXPECT().Export(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := do(newRouter(svc), http.MethodPost, "/api/orders/export", "application/json", `{}`)
			if w.Code != tt.code {
				t.Fatalf("want %d, got %d", tt.code, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.msg) {
				t.Fatalf("сообщение %q не найдено в %s", tt.msg, w.Body.String())
			}
		})
	}
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error { b.closed = true; return nil }

func TestDownload_StreamsCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)

	content := "\ufeffOrder_ID\n7\n"
	body := &trackingBody{Reader: strings.NewReader(content)}
	name := "orders-export-2024-02-01-09-30-00.csv"
	svc.EXPECT().Download(gomock.Any(), name, "tok-1").
		Return(&domain.Download{Filename: name, Size: int64(len(content)), Body: body}, nil)

	w := do(newRouter(svc), http.MethodGet, "/api/orders/download?file="+name+"&token=tok-1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != content {
		t.Fatalf("тело не совпадает: %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("Content-Type: %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename="+name {
		t.Fatalf("Content-Disposition: %q", cd)
	}
	if w.Header().Get("Expires") != "0" || w.Header().Get("Pragma") != "no-cache" {
		t.Fatalf("заголовки кэширования не выставлены: %v", w.Header())
	}
	if !body.closed {
		t.Fatalf("тело скачивания должно закрываться (это удаляет файл)")
	}
}

func TestDownload_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"bad_token", domain.ErrUnauthorized, http.StatusForbidden},
		{"missing_file", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockOrderExportService(ctrl)
			svc.EXPECT().Download(gomock.Any(), "a.csv", "t").Return(nil, tt.err)

			w := do(newRouter(svc), http.MethodGet, "/api/orders/download?file=a.csv&token=t", "", "")
			if w.Code != tt.code {
				t.Fatalf("want %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestDownload_MissingParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderExportService(ctrl)
	svc.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := do(newRouter(svc), http.MethodGet, "/api/orders/download?file=a.csv", "", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", w.Code)
	}
}

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := do(newRouter(mocks.NewMockOrderExportService(ctrl)), http.MethodGet, "/ping", "", "")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("ping: %d %q", w.Code, w.Body.String())
	}
}
