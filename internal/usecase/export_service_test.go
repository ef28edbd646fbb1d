package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	cachemem "github.com/Gunvolt24/wc_order_export/internal/cache/memory"
	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/export"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/internal/ports/mocks"
	"github.com/Gunvolt24/wc_order_export/internal/storage/localfs"
	"github.com/Gunvolt24/wc_order_export/internal/usecase"
)

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// orders — заказы с заданным числом позиций, новые сначала.
func orders(itemCounts ...int) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(itemCounts))
	for i, n := range itemCounts {
		rec := domain.OrderRecord{
			ID:        int64(300 - i),
			Status:    "wc-completed",
			CreatedAt: time.Date(2024, 1, 20-i, 10, 0, 0, 0, time.UTC),
			Total:     "110.00",
			Tax:       "10.00",
			Currency:  "USD",
		}
		for j := 0; j < n; j++ {
			rec.Items = append(rec.Items, domain.LineItem{
				ID: int64(1000*(i+1) + j), ProductID: 7, ProductName: "Mug, \"large\"", Quantity: 1,
			})
		}
		out = append(out, rec)
	}
	return out
}

func itemsSpec() domain.FilterSpec {
	return domain.FilterSpec{Format: domain.FormatDetailed, IncludeItems: true}
}

type deps struct {
	probe   *mocks.MockBackendProbe
	hpos    *mocks.MockOrderSource
	legacy  *mocks.MockOrderSource
	storage ports.ExportStorage
	tokens  ports.ArtifactStore
	events  *mocks.MockEventPublisher
	log     ports.Logger
}

func newDeps(t *testing.T, ctrl *gomock.Controller) *deps {
	t.Helper()
	d := &deps{
		probe:   mocks.NewMockBackendProbe(ctrl),
		hpos:    mocks.NewMockOrderSource(ctrl),
		legacy:  mocks.NewMockOrderSource(ctrl),
		storage: localfs.New(t.TempDir()),
		tokens:  cachemem.NewTokenStore(100, 0),
		events:  mocks.NewMockEventPublisher(ctrl),
		log:     noopLogger{},
	}
	d.hpos.EXPECT().Backend().Return("hpos").AnyTimes()
	d.legacy.EXPECT().Backend().Return("legacy").AnyTimes()
	return d
}

func (d *deps) service() *usecase.ExportService {
	engine := usecase.NewQueryEngine(d.probe, d.hpos, d.legacy)
	return usecase.NewExportService(engine, d.storage, d.tokens, d.events, d.log, usecase.Options{Now: clock})
}

func TestQueryEngine_SelectsByProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	engine := usecase.NewQueryEngine(d.probe, d.hpos, d.legacy)
	ctx := context.Background()

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	src, err := engine.Source(ctx)
	if err != nil || src.Backend() != "hpos" {
		t.Fatalf("ожидали hpos, got %v err=%v", src, err)
	}

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(false, nil)
	src, err = engine.Source(ctx)
	if err != nil || src.Backend() != "legacy" {
		t.Fatalf("ожидали legacy, got %v err=%v", src, err)
	}

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(false, errors.New("conn refused"))
	if _, err = engine.Source(ctx); !errors.Is(err, domain.ErrQueryFailure) {
		t.Fatalf("ошибка проверки схемы должна быть ErrQueryFailure, got %v", err)
	}
}

func TestPreview_CapsRowsAndCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)

	spec := itemsSpec()
	spec.Limit = 500

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got domain.FilterSpec) ([]domain.OrderRecord, error) {
			if got.Limit != usecase.DefaultPreviewRows {
				t.Fatalf("предпросмотр должен ограничивать выборку: limit=%d", got.Limit)
			}
			return orders(5, 5, 5), nil
		})
	d.hpos.EXPECT().CountOrders(gomock.Any(), spec).Return(42, nil)

	res, err := d.service().Preview(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != usecase.DefaultPreviewRows {
		t.Fatalf("rows = %d, want %d", len(res.Rows), usecase.DefaultPreviewRows)
	}
	if res.TotalCount != 42 || res.Backend != "hpos" {
		t.Fatalf("total=%d backend=%s", res.TotalCount, res.Backend)
	}
	// itemsSpec: базовые колонки + позиции, без блоков адресов
	if len(res.Columns) != 10+13 {
		t.Fatalf("columns = %d", len(res.Columns))
	}
	if res.Columns[10] != "Order_Item_ID" {
		t.Fatalf("после базовых колонок ожидали блок позиций, got %s", res.Columns[10])
	}
}

func TestPreview_ZeroMatches_EmptySuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(false, nil)
	d.legacy.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return([]domain.OrderRecord{}, nil)
	d.legacy.EXPECT().CountOrders(gomock.Any(), gomock.Any()).Return(0, nil)

	res, err := d.service().Preview(context.Background(), itemsSpec())
	if err != nil {
		t.Fatalf("ноль совпадений в предпросмотре — не ошибка: %v", err)
	}
	if res.Rows == nil || len(res.Rows) != 0 || res.Columns == nil || len(res.Columns) != 0 || res.TotalCount != 0 {
		t.Fatalf("ожидали пустой результат, got %+v", res)
	}
}

func TestExport_ZeroMatches_NoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	storage := mocks.NewMockExportStorage(ctrl)
	d.storage = storage

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(false, nil)
	d.legacy.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(nil, nil)
	storage.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := d.service().Export(context.Background(), itemsSpec())
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestExport_QueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).
		Return(nil, errors.Join(domain.ErrQueryFailure, errors.New("relation does not exist")))

	_, err := d.service().Export(context.Background(), itemsSpec())
	if !errors.Is(err, domain.ErrQueryFailure) || errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("сбой запроса должен отличаться от пустого результата: %v", err)
	}
}

func TestExport_ThenDownloadOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	dir := t.TempDir()
	d.storage = localfs.New(dir)
	ctx := context.Background()

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(2, 1, 1), nil)
	gomock.InOrder(
		d.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev domain.ExportEvent) error {
				if ev.Type != domain.EventExportCreated || ev.Rows != 4 || ev.Backend != "hpos" {
					t.Fatalf("неожиданное событие: %+v", ev)
				}
				return nil
			}),
		d.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev domain.ExportEvent) error {
				if ev.Type != domain.EventExportDownloaded {
					t.Fatalf("неожиданное событие: %+v", ev)
				}
				return nil
			}),
	)

	svc := d.service()
	res, err := svc.Export(ctx, itemsSpec())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Filename != export.Filename(fixedNow, 0) || res.RowCount != 4 || res.DownloadToken == "" {
		t.Fatalf("неожиданный результат: %+v", res)
	}

	st, err := os.Stat(filepath.Join(dir, res.Filename))
	if err != nil || st.Size() != res.FileSizeBytes {
		t.Fatalf("размер файла не совпадает: stat=%v err=%v want=%d", st, err, res.FileSizeBytes)
	}

	dl, err := svc.Download(ctx, res.Filename, res.DownloadToken)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	body, err := io.ReadAll(dl.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(body, export.BOM) || int64(len(body)) != dl.Size {
		t.Fatalf("тело скачивания некорректно: len=%d size=%d", len(body), dl.Size)
	}
	if err := dl.Body.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, res.Filename)); !os.IsNotExist(err) {
		t.Fatalf("файл должен быть удалён после скачивания, err=%v", err)
	}

	if _, err := svc.Download(ctx, res.Filename, res.DownloadToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("повторное скачивание: want ErrUnauthorized, got %v", err)
	}
}

func TestPreviewAndExport_SameColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	spec := domain.FilterSpec{Format: domain.FormatDetailed, IncludeBilling: true, IncludeNotes: true}

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(false, nil).Times(2)
	d.legacy.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(1, 0), nil).Times(2)
	d.legacy.EXPECT().CountOrders(gomock.Any(), gomock.Any()).Return(2, nil)
	d.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := d.service()
	ctx := context.Background()
	prev, err := svc.Preview(ctx, spec)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	res, err := svc.Export(ctx, spec)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dl, err := svc.Download(ctx, res.Filename, res.DownloadToken)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer dl.Body.Close()
	raw, _ := io.ReadAll(dl.Body)
	header := string(bytes.SplitN(bytes.TrimPrefix(raw, export.BOM), []byte("\n"), 2)[0])

	want := ""
	for i, c := range prev.Columns {
		if i > 0 {
			want += ","
		}
		want += c
	}
	if header != want {
		t.Fatalf("колонки предпросмотра и выгрузки различаются:\n%s\n%s", want, header)
	}
}

func TestExport_FilenameCollisionRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	dir := t.TempDir()
	d.storage = localfs.New(dir)

	taken := export.Filename(fixedNow, 0)
	if err := os.WriteFile(filepath.Join(dir, taken), []byte("busy"), 0o600); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(1), nil)
	d.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	res, err := d.service().Export(context.Background(), itemsSpec())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Filename != export.Filename(fixedNow, 1) {
		t.Fatalf("ожидали имя с суффиксом, got %s", res.Filename)
	}
	if got, _ := os.ReadFile(filepath.Join(dir, taken)); string(got) != "busy" {
		t.Fatalf("существующий файл не должен перезаписываться")
	}
}

type failingFile struct{}

func (failingFile) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }
func (failingFile) Close() error              { return nil }

func TestExport_WriteFailure_RemovesPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	storage := mocks.NewMockExportStorage(ctrl)
	tokens := mocks.NewMockArtifactStore(ctrl)
	d.storage, d.tokens = storage, tokens

	name := export.Filename(fixedNow, 0)
	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(1), nil)
	storage.EXPECT().Create(gomock.Any(), name).Return(failingFile{}, nil)
	storage.EXPECT().Remove(gomock.Any(), name).Return(nil)
	tokens.EXPECT().Issue(gomock.Any(), gomock.Any()).Times(0)

	_, err := d.service().Export(context.Background(), itemsSpec())
	if !errors.Is(err, domain.ErrWriteFailure) {
		t.Fatalf("want ErrWriteFailure, got %v", err)
	}
}

func TestExport_StorageUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	storage := mocks.NewMockExportStorage(ctrl)
	d.storage = storage

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(1), nil)
	storage.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrStorageUnavailable)

	_, err := d.service().Export(context.Background(), itemsSpec())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
}

func TestExport_PublishErrorIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)

	d.probe.EXPECT().DedicatedOrdersTable(gomock.Any()).Return(true, nil)
	d.hpos.EXPECT().FetchOrders(gomock.Any(), gomock.Any()).Return(orders(1), nil)
	d.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warnf(gomock.Any(), "publish %s file=%s: %v", domain.EventExportCreated, gomock.Any(), gomock.Any()).Times(1)
	log.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	d.log = log

	if _, err := d.service().Export(context.Background(), itemsSpec()); err != nil {
		t.Fatalf("ошибка публикации события не должна ломать выгрузку: %v", err)
	}
}

func TestDownload_BadToken_NoFileAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	storage := mocks.NewMockExportStorage(ctrl)
	d.storage = storage

	storage.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)

	_, err := d.service().Download(context.Background(), export.Filename(fixedNow, 0), "forged")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestDownload_MissingFile_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	ctx := context.Background()

	name := export.Filename(fixedNow, 0)
	token, err := d.tokens.Issue(ctx, name)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = d.service().Download(ctx, name, token)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := newDeps(t, ctrl)
	storage := mocks.NewMockExportStorage(ctrl)
	d.storage = storage

	storage.EXPECT().Sweep(gomock.Any()).Return(3, nil)

	n, err := d.service().Sweep(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("sweep: n=%d err=%v", n, err)
	}
}
