package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"

	"github.com/Gunvolt24/wc_order_export/config"
	"github.com/Gunvolt24/wc_order_export/internal/app"
	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/pkg/filterform"
	"github.com/Gunvolt24/wc_order_export/pkg/logger"
)

// CLI-приложение для выгрузки заказов без HTTP-сервера.
func main() {
	filterPath := flag.String("filter", "", "path to filter JSON. If empty, reads from stdin.")
	preview := flag.Bool("preview", false, "print preview as JSON instead of writing CSV")
	outDir := flag.String("out", "", "export directory (overrides EXPORTER_EXPORT_DIR)")
	sweep := flag.Bool("sweep", false, "delete all export files and exit")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fail("load config: %v", err)
	}
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		fail("logger: %v", err)
	}
	defer func() { _ = cleanupLogger() }()

	core, err := app.NewCore(ctx, cfg, logg)
	if err != nil {
		fail("init: %v", err)
	}
	defer func() { _ = core.Close() }()

	if *sweep {
		n, err := core.Service.Sweep(ctx)
		if err != nil {
			fail("sweep: %v", err)
		}
		fmt.Fprintf(os.Stderr, "removed %d export files from %s\n", n, cfg.Export.Dir)
		return
	}

	spec, err := readFilter(*filterPath)
	if err != nil {
		fail("%s", domain.UserMessage(err))
	}

	if *preview {
		res, err := core.Service.Preview(ctx, spec)
		if err != nil {
			fail("%s", domain.UserMessage(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"data":        res.Rows,
			"total_count": res.TotalCount,
			"columns":     res.Columns,
			"backend":     res.Backend,
		})
		return
	}

	res, err := core.Service.Export(ctx, spec)
	if err != nil {
		fail("%s", domain.UserMessage(err))
	}
	fmt.Fprintf(os.Stdout, "%s\t%d rows\t%s\n", res.Filename, res.RowCount,
		units.HumanSizeWithPrecision(float64(res.FileSizeBytes), 3))
}

func readFilter(path string) (domain.FilterSpec, error) {
	if path != "" {
		return filterform.FromFile(path)
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return domain.FilterSpec{}, fmt.Errorf("%w: read stdin: %w", domain.ErrValidation, err)
	}
	return filterform.FromJSON(raw)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
