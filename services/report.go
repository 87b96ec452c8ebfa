package services

import (
	"fmt"
	"strings"

	"github.com/Edunzz/monedillo/models"
)

// ReportFormatter renders the bot's replies. Pure formatting over query
// results; the only state is the Sheets link used in footers.
type ReportFormatter struct {
	sheetURL string
}

func NewReportFormatter(sheetURL string) *ReportFormatter {
	return &ReportFormatter{sheetURL: sheetURL}
}

func (f *ReportFormatter) footer() string {
	return fmt.Sprintf("\n[📄 Ver reporte en Google Sheets](%s)", f.sheetURL)
}

// ReporteGeneral renders one line per category in the order the store
// returned them. Aggregation order is kept on purpose; sorting here would
// change long-standing bot behavior.
func (f *ReportFormatter) ReporteGeneral(saldos []models.CategoriaBalance) string {
	var b strings.Builder
	b.WriteString("📊 *Reporte general de categorías:*\n")
	for _, s := range saldos {
		b.WriteString(fmt.Sprintf("• %s: S/ %.2f\n", s.Categoria, s.Saldo))
	}
	b.WriteString(f.footer())
	return b.String()
}

// SaldoCategoria renders the single-category balance reply.
func (f *ReportFormatter) SaldoCategoria(categoria string, saldo float64) string {
	return fmt.Sprintf("💼 *Saldo en '%s':*\nS/ %.2f\n%s", categoria, saldo, f.footer())
}

// MovimientoRegistrado confirms a recorded movement and reports the new
// category balance.
func (f *ReportFormatter) MovimientoRegistrado(tipo string, monto float64, categoria string, saldo float64) string {
	return fmt.Sprintf("✅ %s de S/ %.2f registrado en '%s'.\n💰 Saldo actual: S/ %.2f\n%s",
		titleCase(tipo), monto, categoria, saldo, f.footer())
}

// CategoriaInvalida lists the valid categories after a bad category name.
func (f *ReportFormatter) CategoriaInvalida() string {
	return "❌ Categoría inválida. Usa:\n" + categoriaList()
}

// NoInterpretado is the reply when extraction failed or produced a
// category outside the fixed set.
func (f *ReportFormatter) NoInterpretado() string {
	return "⚠️ No pude interpretar tu mensaje.\n" +
		"Ejemplo: 'gasté 30 en transporte' o 'ahorré 50 para salud'\n" +
		"Categorías válidas:\n" + categoriaList()
}

func categoriaList() string {
	lines := make([]string, len(models.CategoriasValidas))
	for i, c := range models.CategoriasValidas {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
