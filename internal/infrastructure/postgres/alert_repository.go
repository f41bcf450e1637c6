package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, material_id, kind, level, status, message, generated_at, acknowledged_at, acknowledged_by, resolved_at, updated_at`

func scanAlert(row pgxScanner) (*entity.StockAlert, error) {
	var a entity.StockAlert
	err := row.Scan(
		&a.ID, &a.MaterialID, &a.Kind, &a.Level, &a.Status, &a.Message,
		&a.GeneratedAt, &a.AcknowledgedAt, &a.AcknowledgedBy, &a.ResolvedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una alerta nueva.
func (r *AlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.MaterialID, a.Kind, a.Level, a.Status, a.Message,
		a.GeneratedAt, a.AcknowledgedAt, a.AcknowledgedBy, a.ResolvedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Update actualiza una alerta existente.
func (r *AlertRepo) Update(ctx context.Context, a *entity.StockAlert) error {
	query := `
		UPDATE stock_alerts
		SET level = $2, status = $3, message = $4, acknowledged_at = $5,
		    acknowledged_by = $6, resolved_at = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Level, a.Status, a.Message, a.AcknowledgedAt,
		a.AcknowledgedBy, a.ResolvedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", mapConflict(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una alerta por ID, o nil si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetOpen devuelve la alerta abierta (ACTIVE o ACKNOWLEDGED) del par (material, tipo), o nil.
func (r *AlertRepo) GetOpen(ctx context.Context, materialID, kind string) (*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE material_id = $1 AND kind = $2 AND status IN ('ACTIVE', 'ACKNOWLEDGED')
		ORDER BY generated_at DESC
		LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, materialID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open alert: %w", err)
	}
	return a, nil
}

// ListOpen alertas abiertas, más recientes primero.
func (r *AlertRepo) ListOpen(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE status IN ('ACTIVE', 'ACKNOWLEDGED')
		ORDER BY generated_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByMaterial historial de alertas de un material, más recientes primero.
func (r *AlertRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE material_id = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alerts by material: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
