package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
)

func TestTranslate_ViolacionesDeIntegridad(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("conexión cerrada")

	assert.ErrorIs(t, translate(unique), domain.ErrDuplicate)
	assert.ErrorIs(t, translate(fk), domain.ErrConflict)
	assert.Same(t, other, translate(other))
	assert.NoError(t, translate(nil))
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%latte%", likePattern(" latte "))
	assert.Equal(t, `%50\% off\_x%`, likePattern("50% off_x"))
}

func TestMigrations_Embebidas(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/001_init.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS stock_balances")
	assert.Contains(t, string(body), "uq_attendance_open")
}
