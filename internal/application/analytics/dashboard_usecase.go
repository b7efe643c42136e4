// Package analytics contiene el caso de uso del dashboard de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

const dashboardMonths = 6 // meses del gráfico de entradas/salidas

// DashboardUseCase genera el resumen del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc define los límites de cada mes.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, loc: loc, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres llamadas en paralelo:
//  1. TotalStock             → TotalStock
//  2. MovementTotals         → TotalIn + TotalOut
//  3. MonthlyMovementTotals  → Monthly (últimos 6 meses, incluido el actual)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor policy.Actor) (*dto.DashboardSummaryDTO, error) {
	if err := policy.Authorize(actor, policy.CapReadInventory); err != nil {
		return nil, err
	}
	now := uc.now().In(uc.loc)
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc).AddDate(0, -(dashboardMonths - 1), 0)

	type stockResult struct {
		total int64
		err   error
	}
	type totalsResult struct {
		in, out int64
		err     error
	}
	type monthlyResult struct {
		rows []repository.MonthlyMovementTotal
		err  error
	}

	stockCh := make(chan stockResult, 1)
	totalsCh := make(chan totalsResult, 1)
	monthlyCh := make(chan monthlyResult, 1)

	go func() {
		total, err := uc.analyticsRepo.TotalStock(ctx)
		stockCh <- stockResult{total, err}
	}()
	go func() {
		in, out, err := uc.analyticsRepo.MovementTotals(ctx)
		totalsCh <- totalsResult{in, out, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.MonthlyMovementTotals(ctx, firstMonth, uc.loc)
		monthlyCh <- monthlyResult{rows, err}
	}()

	stock := <-stockCh
	totals := <-totalsCh
	monthly := <-monthlyCh

	if stock.err != nil {
		return nil, domain.Gateway("dashboard: stock total", stock.err)
	}
	if totals.err != nil {
		return nil, domain.Gateway("dashboard: totales de movimientos", totals.err)
	}
	if monthly.err != nil {
		return nil, domain.Gateway("dashboard: movimientos por mes", monthly.err)
	}

	// un punto por mes aunque no haya movimientos
	points := make([]dto.MonthlyMovementDTO, dashboardMonths)
	index := make(map[string]int, dashboardMonths)
	for i := range points {
		month := firstMonth.AddDate(0, i, 0)
		points[i] = dto.MonthlyMovementDTO{Month: month.Format("2006-01"), Label: monthLabel(month)}
		index[points[i].Month] = i
	}
	for _, r := range monthly.rows {
		i, ok := index[r.Month.In(uc.loc).Format("2006-01")]
		if !ok {
			continue
		}
		if r.Kind == entity.MovementKindIn {
			points[i].In += r.Quantity
		} else {
			points[i].Out += r.Quantity
		}
	}

	return &dto.DashboardSummaryDTO{
		TotalStock: stock.total,
		TotalIn:    totals.in,
		TotalOut:   totals.out,
		Monthly:    points,
	}, nil
}

// monthLabel devuelve la etiqueta corta del mes en pt-BR, ej: "mar/2026".
func monthLabel(t time.Time) string {
	months := [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}
	return fmt.Sprintf("%s/%d", months[t.Month()-1], t.Year())
}
