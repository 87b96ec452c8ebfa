package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edunzz/monedillo/models"
)

type fakeExporter struct {
	movs  []models.ExportedMovement
	desde *time.Time
	hasta *time.Time
	calls int
}

func (f *fakeExporter) Export(_ context.Context, desde, hasta *time.Time) ([]models.ExportedMovement, error) {
	f.calls++
	f.desde = desde
	f.hasta = hasta
	return f.movs, nil
}

func getExport(h *ExportHandler, query string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/exportar", h.Export)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/exportar"+query, nil)
	router.ServeHTTP(rr, req)
	return rr
}

func TestExport_WrongKey_Unauthorized(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewExportHandler(exporter, "secreto")

	rr := getExport(h, "?clave=wrong")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if exporter.calls != 0 {
		t.Errorf("store queried despite bad key")
	}
	if !strings.Contains(rr.Body.String(), "No autorizado") {
		t.Errorf("body = %q, want No autorizado", rr.Body.String())
	}
}

func TestExport_MissingKey_Unauthorized(t *testing.T) {
	h := NewExportHandler(&fakeExporter{}, "secreto")

	if rr := getExport(h, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestExport_BadDate_BadRequest(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewExportHandler(exporter, "secreto")

	for _, query := range []string{
		"?clave=secreto&desde=notadate",
		"?clave=secreto&hasta=31-01-2024",
	} {
		rr := getExport(h, query)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Formato de fecha inválido") {
			t.Errorf("%s: body = %q, want date format error", query, rr.Body.String())
		}
	}
	if exporter.calls != 0 {
		t.Errorf("store queried despite bad dates")
	}
}

func TestExport_NoWindow_ReturnsAll(t *testing.T) {
	exporter := &fakeExporter{movs: []models.ExportedMovement{
		{ChatID: 7, Tipo: "gasto", Monto: 30, Categoria: "transporte", Fecha: "2024-01-15 10:30:00"},
	}}
	h := NewExportHandler(exporter, "secreto")

	rr := getExport(h, "?clave=secreto")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if exporter.desde != nil || exporter.hasta != nil {
		t.Errorf("bounds = (%v, %v), want open window", exporter.desde, exporter.hasta)
	}

	var got []models.ExportedMovement
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("body not a JSON array: %v", err)
	}
	if len(got) != 1 || got[0].Fecha != "2024-01-15 10:30:00" {
		t.Errorf("got %+v, want the formatted movement", got)
	}
}

func TestExport_WindowParsing(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewExportHandler(exporter, "secreto")

	rr := getExport(h, "?clave=secreto&desde=2024-01-01&hasta=2024-01-31T23:59:59")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	wantDesde := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantHasta := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	if exporter.desde == nil || !exporter.desde.Equal(wantDesde) {
		t.Errorf("desde = %v, want %v", exporter.desde, wantDesde)
	}
	if exporter.hasta == nil || !exporter.hasta.Equal(wantHasta) {
		t.Errorf("hasta = %v, want %v", exporter.hasta, wantHasta)
	}
}
