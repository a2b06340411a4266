package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// AttendanceUseCase entradas y salidas del personal. El día se evalúa en la zona horaria
// configurada del negocio.
type AttendanceUseCase struct {
	repo repository.AttendanceRepository
	loc  *time.Location
	now  func() time.Time
}

// NewAttendanceUseCase construye el caso de uso. loc nil usa UTC.
func NewAttendanceUseCase(repo repository.AttendanceRepository, loc *time.Location) *AttendanceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceUseCase{repo: repo, loc: loc, now: time.Now}
}

// WithClock reemplaza la fuente de hora (tests).
func (uc *AttendanceUseCase) WithClock(now func() time.Time) *AttendanceUseCase {
	uc.now = now
	return uc
}

func (uc *AttendanceUseCase) today() (time.Time, time.Time, time.Time) {
	now := uc.now().In(uc.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	return now, from, from.AddDate(0, 0, 1)
}

// CheckIn registra la entrada. Como máximo un registro abierto por usuario y día.
func (uc *AttendanceUseCase) CheckIn(ctx context.Context, actor entity.Principal) (*dto.AttendanceResponse, error) {
	if actor.IsAdmin() || actor.BranchID == "" {
		return nil, domain.ErrForbidden
	}
	now, from, to := uc.today()
	open, err := uc.repo.FindOpen(ctx, actor.ID, from, to)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, errAlreadyCheckedIn()
	}
	a := &entity.Attendance{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		BranchID:  actor.BranchID,
		CheckIn:   now,
		CreatedAt: now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		// índice único parcial sobre registros abiertos: dos entradas simultáneas
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errAlreadyCheckedIn()
		}
		return nil, err
	}
	return toAttendanceResponse(a), nil
}

// CheckOut registra la salida del registro abierto de hoy.
func (uc *AttendanceUseCase) CheckOut(ctx context.Context, actor entity.Principal) (*dto.AttendanceResponse, error) {
	if actor.IsAdmin() || actor.BranchID == "" {
		return nil, domain.ErrForbidden
	}
	now, from, to := uc.today()
	open, err := uc.repo.FindOpen(ctx, actor.ID, from, to)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, &domain.InvalidStateError{Entity: "asistencia", State: "closed", Action: "check_out", Reason: "no hay entrada registrada hoy"}
	}
	open.CheckOut = &now
	if err := uc.repo.Update(ctx, open); err != nil {
		return nil, err
	}
	return toAttendanceResponse(open), nil
}

// MyHistory historial del propio usuario, más reciente primero.
func (uc *AttendanceUseCase) MyHistory(ctx context.Context, actor entity.Principal, page dto.PageRequest) (*dto.AttendanceListResponse, error) {
	page = page.Normalize()
	list, err := uc.repo.ListByUser(ctx, actor.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toAttendanceList(list, page), nil
}

// BranchHistory asistencia de una sucursal en un día (cero = hoy).
func (uc *AttendanceUseCase) BranchHistory(ctx context.Context, actor entity.Principal, branchID string, day time.Time, page dto.PageRequest) (*dto.AttendanceListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewBranchAttendance, branchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	_, from, to := uc.today()
	if !day.IsZero() {
		d := day.In(uc.loc)
		from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, uc.loc)
		to = from.AddDate(0, 0, 1)
	}
	page = page.Normalize()
	list, err := uc.repo.ListByBranch(ctx, branchID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toAttendanceList(list, page), nil
}

func errAlreadyCheckedIn() error {
	return &domain.InvalidStateError{Entity: "asistencia", State: "open", Action: "check_in", Reason: "ya registró entrada"}
}

func toAttendanceList(list []*entity.Attendance, page dto.PageRequest) *dto.AttendanceListResponse {
	out := &dto.AttendanceListResponse{
		Items: make([]dto.AttendanceResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}
	for _, a := range list {
		out.Items = append(out.Items, *toAttendanceResponse(a))
	}
	return out
}

func toAttendanceResponse(a *entity.Attendance) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		BranchID:   a.BranchID,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		TotalHours: a.TotalHours(),
	}
}
