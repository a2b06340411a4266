package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

// AttendanceRepo asistencia sobre PostgreSQL. work_date se calcula en la zona del negocio y
// respalda el índice único parcial de registros abiertos.
type AttendanceRepo struct {
	q   Querier
	loc *time.Location
}

// NewAttendanceRepository construye el adaptador. loc nil usa UTC.
func NewAttendanceRepository(q Querier, loc *time.Location) *AttendanceRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceRepo{q: q, loc: loc}
}

const attendanceColumns = `id, user_id, branch_id, check_in, check_out, created_at`

func scanAttendance(row pgx.Row) (*entity.Attendance, error) {
	var a entity.Attendance
	if err := row.Scan(&a.ID, &a.UserID, &a.BranchID, &a.CheckIn, &a.CheckOut, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create registra una entrada. Un segundo registro abierto del mismo día → ErrDuplicate.
func (r *AttendanceRepo) Create(ctx context.Context, a *entity.Attendance) error {
	query := `
		INSERT INTO attendance (id, user_id, branch_id, work_date, check_in, check_out, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.UserID, a.BranchID, a.CheckIn.In(r.loc).Format("2006-01-02"),
		a.CheckIn, a.CheckOut, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", translate(err))
	}
	return nil
}

// Update registra la salida.
func (r *AttendanceRepo) Update(ctx context.Context, a *entity.Attendance) error {
	tag, err := r.q.Exec(ctx, `UPDATE attendance SET check_out = $2 WHERE id = $1`, a.ID, a.CheckOut)
	if err != nil {
		return fmt.Errorf("update attendance: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindOpen registro sin salida del usuario con entrada en [from, to).
func (r *AttendanceRepo) FindOpen(ctx context.Context, userID string, from, to time.Time) (*entity.Attendance, error) {
	a, err := scanAttendance(r.q.QueryRow(ctx, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE user_id = $1 AND check_out IS NULL AND check_in >= $2 AND check_in < $3
		ORDER BY check_in DESC LIMIT 1`, userID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open attendance: %w", err)
	}
	return a, nil
}

// ListByUser historial del usuario, más reciente primero.
func (r *AttendanceRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Attendance, error) {
	return r.list(ctx, `
		SELECT `+attendanceColumns+` FROM attendance WHERE user_id = $1
		ORDER BY check_in DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
}

// ListByBranch asistencia de la sucursal (vacío = todas) con entrada en [from, to).
func (r *AttendanceRepo) ListByBranch(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]*entity.Attendance, error) {
	return r.list(ctx, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE ($1 = '' OR branch_id = $1) AND check_in >= $2 AND check_in < $3
		ORDER BY check_in DESC LIMIT $4 OFFSET $5`, branchID, from, to, limit, offset)
}

func (r *AttendanceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Attendance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()
	var list []*entity.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
