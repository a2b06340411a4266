package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos diarios por prefijo. El upsert toma el lock de la fila, por lo que
// dos documentos del mismo día nunca reciben el mismo número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo (desde 1) del prefijo para el día dado.
func (r *SequenceRepo) Next(ctx context.Context, prefix string, day time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (prefix, day, last_value) VALUES ($1, $2::date, 1)
		ON CONFLICT (prefix, day) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, prefix, day.Format("2006-01-02")).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return n, nil
}
