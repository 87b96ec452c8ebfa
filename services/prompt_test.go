package services

import (
	"strings"
	"testing"

	"github.com/Edunzz/monedillo/models"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt("gasté 30 en transporte")

	if !strings.Contains(prompt, `Texto: "gasté 30 en transporte"`) {
		t.Errorf("prompt does not embed the user text: %q", prompt)
	}
	for _, c := range models.CategoriasValidas {
		if !strings.Contains(prompt, c) {
			t.Errorf("prompt missing category %q", c)
		}
	}
	for _, key := range []string{`"tipo"`, `"monto"`, `"categoria"`} {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing expected JSON key %s", key)
		}
	}
	if !strings.Contains(prompt, "gasto por defecto") {
		t.Errorf("prompt missing default-type rule")
	}
}
