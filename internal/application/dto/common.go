package dto

import (
	"fmt"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Actor quién ejecuta la operación (extraído del JWT por el handler).
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
	IP        string
}

// IsAdmin informa si el actor es administrador de la empresa.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// DateRangeQuery rango de fechas opcional en query string.
// Acepta YYYY-MM-DD (día completo en la zona horaria de la empresa) o RFC3339.
type DateRangeQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// Parse convierte el rango a [from, to) en la zona indicada; "to" con fecha corta incluye el día completo.
func (q DateRangeQuery) Parse(loc *time.Location) (from, to *time.Time, err error) {
	if q.From != "" {
		t, _, err := parseDate(q.From, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("from: %w", err)
		}
		from = &t
	}
	if q.To != "" {
		t, short, err := parseDate(q.To, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("to: %w", err)
		}
		if short {
			t = t.AddDate(0, 0, 1)
		}
		to = &t
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, fmt.Errorf("rango vacío")
	}
	return from, to, nil
}

func parseDate(s string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fecha inválida %q (use YYYY-MM-DD o RFC3339)", s)
	}
	return t, false, nil
}
