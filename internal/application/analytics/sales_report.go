// Package analytics contiene los reportes de ventas para administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// Períodos del reporte. Son ventanas móviles que terminan en el instante actual.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const topProducts = 5 // productos en el ranking del reporte

// SalesReportUseCase arma el reporte de ventas de un período.
type SalesReportUseCase struct {
	sales repository.SalesRepository
	now   func() time.Time
}

// NewSalesReportUseCase construye el caso de uso.
func NewSalesReportUseCase(sales repository.SalesRepository) *SalesReportUseCase {
	return &SalesReportUseCase{sales: sales, now: time.Now}
}

// periodStart inicio de la ventana; period vacío equivale a day.
func periodStart(period string, now time.Time) (string, time.Time, error) {
	switch period {
	case "", PeriodDay:
		return PeriodDay, now.AddDate(0, 0, -1), nil
	case PeriodWeek:
		return PeriodWeek, now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return PeriodMonth, now.AddDate(0, -1, 0), nil
	}
	return "", time.Time{}, fmt.Errorf("%w: período %q no soportado (day, week, month)", domain.ErrInvalidInput, period)
}

// Sales ejecuta las tres consultas del reporte en paralelo.
func (uc *SalesReportUseCase) Sales(ctx context.Context, period string) (*dto.SalesReportDTO, error) {
	now := uc.now()
	period, from, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}
	// to exclusivo: incluye lo registrado en este mismo instante.
	to := now.Add(time.Nanosecond)

	var (
		totals entity.SalesTotals
		top    []dto.TopProductDTO
		cost   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := uc.sales.Totals(gctx, from, to)
		if err != nil {
			return fmt.Errorf("reporte: totales: %w", err)
		}
		totals = t
		return nil
	})
	g.Go(func() error {
		list, err := uc.sales.TopProducts(gctx, from, to, topProducts)
		if err != nil {
			return fmt.Errorf("reporte: top productos: %w", err)
		}
		top = make([]dto.TopProductDTO, 0, len(list))
		for _, ps := range list {
			top = append(top, dto.TopProductDTO{
				ProductID: ps.ProductID,
				Name:      ps.Name,
				Quantity:  ps.Quantity,
				Revenue:   ps.Revenue.Round(2),
			})
		}
		return nil
	})
	g.Go(func() error {
		c, err := uc.sales.ConsumptionCost(gctx, from, to)
		if err != nil {
			return fmt.Errorf("reporte: costo de consumos: %w", err)
		}
		cost = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if totals.Orders > 0 {
		avg = totals.Revenue.Div(decimal.NewFromInt(int64(totals.Orders)))
	}
	return &dto.SalesReportDTO{
		Period:         period,
		From:           from,
		To:             now,
		Orders:         totals.Orders,
		Revenue:        totals.Revenue.Round(2),
		AverageTicket:  avg.Round(2),
		IngredientCost: cost.Round(2),
		GrossMargin:    totals.Revenue.Sub(cost).Round(2),
		TopProducts:    top,
	}, nil
}
