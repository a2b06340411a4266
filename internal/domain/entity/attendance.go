package entity

import (
	"fmt"
	"time"
)

// Attendance registro de entrada/salida de un usuario en su sucursal.
type Attendance struct {
	ID        string
	UserID    string
	BranchID  string
	CheckIn   time.Time
	CheckOut  *time.Time
	CreatedAt time.Time
}

// IsOpen indica si aún no registra salida.
func (a *Attendance) IsOpen() bool { return a.CheckOut == nil }

// TotalMinutes minutos completos entre entrada y salida (0 si sigue abierto).
func (a *Attendance) TotalMinutes() int {
	if a.CheckOut == nil {
		return 0
	}
	m := int(a.CheckOut.Sub(a.CheckIn).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// TotalHours horas trabajadas con formato "Xh Ym"; vacío si sigue abierto.
func (a *Attendance) TotalHours() string {
	if a.CheckOut == nil {
		return ""
	}
	m := a.TotalMinutes()
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}
