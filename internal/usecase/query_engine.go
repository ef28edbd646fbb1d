package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
)

// QueryEngine — выбирает стратегию выборки по результату проверки схемы хранения.
// Это единственное место, где решается, с какой схемой работать.
type QueryEngine struct {
	probe  ports.BackendProbe
	hpos   ports.OrderSource
	legacy ports.OrderSource
}

// NewQueryEngine — DI-конструктор.
func NewQueryEngine(probe ports.BackendProbe, hpos, legacy ports.OrderSource) *QueryEngine {
	return &QueryEngine{probe: probe, hpos: hpos, legacy: legacy}
}

// Source — стратегия для текущего состояния хранилища (проверяется на каждый вызов).
func (e *QueryEngine) Source(ctx context.Context) (ports.OrderSource, error) {
	dedicated, err := e.probe.DedicatedOrdersTable(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrQueryFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailure, err)
	}
	if dedicated {
		return e.hpos, nil
	}
	return e.legacy, nil
}
