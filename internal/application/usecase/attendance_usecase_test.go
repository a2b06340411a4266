package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/usecase"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/testutil"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newAttendance(t *testing.T, start time.Time) (*usecase.AttendanceUseCase, *fakeClock) {
	t.Helper()
	bogota := time.FixedZone("COT", -5*3600)
	clock := &fakeClock{t: start}
	uc := usecase.NewAttendanceUseCase(testutil.NewStore().Attendance(), bogota).WithClock(clock.Now)
	return uc, clock
}

func TestAttendance_DobleEntradaElMismoDia(t *testing.T) {
	ctx := context.Background()
	uc, clock := newAttendance(t, time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)) // 08:00 Bogotá

	in, err := uc.CheckIn(ctx, cashier)
	require.NoError(t, err)
	assert.Nil(t, in.CheckOut)
	assert.Empty(t, in.TotalHours)

	clock.t = clock.t.Add(2 * time.Hour)
	_, err = uc.CheckIn(ctx, cashier)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "ya registró entrada")
}

func TestAttendance_SalidaCalculaHoras(t *testing.T) {
	ctx := context.Background()
	uc, clock := newAttendance(t, time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC))

	_, err := uc.CheckIn(ctx, cashier)
	require.NoError(t, err)
	clock.t = clock.t.Add(8*time.Hour + 45*time.Minute + 30*time.Second)

	out, err := uc.CheckOut(ctx, cashier)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOut)
	assert.Equal(t, "8h 45m", out.TotalHours)

	// tras cerrar el registro se permite una nueva entrada el mismo día
	_, err = uc.CheckIn(ctx, cashier)
	require.NoError(t, err)
}

func TestAttendance_SalidaSinEntrada(t *testing.T) {
	uc, _ := newAttendance(t, time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC))
	_, err := uc.CheckOut(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAttendance_DiaSegunZonaDelNegocio(t *testing.T) {
	ctx := context.Background()
	// 23:30 Bogotá del 15 = 04:30 UTC del 16
	uc, clock := newAttendance(t, time.Date(2026, 10, 16, 4, 30, 0, 0, time.UTC))
	_, err := uc.CheckIn(ctx, cashier)
	require.NoError(t, err)

	// 00:30 Bogotá del 16: nuevo día, el registro abierto de ayer no bloquea
	clock.t = clock.t.Add(time.Hour)
	_, err = uc.CheckIn(ctx, cashier)
	require.NoError(t, err)
}

func TestAttendance_AdministradorNoMarca(t *testing.T) {
	uc, _ := newAttendance(t, time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC))
	_, err := uc.CheckIn(context.Background(), admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAttendance_HistorialDeSucursal(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAttendance(t, time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC))
	_, err := uc.CheckIn(ctx, cashier)
	require.NoError(t, err)
	_, err = uc.CheckIn(ctx, manager)
	require.NoError(t, err)

	list, err := uc.BranchHistory(ctx, manager, "", time.Time{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = uc.BranchHistory(ctx, cashier, "", time.Time{}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine, err := uc.MyHistory(ctx, cashier, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
}
