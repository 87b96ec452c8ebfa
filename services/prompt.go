package services

import (
	"fmt"
	"strings"

	"github.com/Edunzz/monedillo/models"
)

// BuildExtractionPrompt formats the instruction sent to the model for one
// user message. Pure string formatting, no error paths.
func BuildExtractionPrompt(textoUsuario string) string {
	categorias := strings.Join(models.CategoriasValidas, ", ")

	return fmt.Sprintf(`Extrae el tipo, monto y la categoría desde el siguiente texto con las siguientes indicaciones.
El tipo siempre debe ser gasto por defecto a menos que el texto indica que se debe agregar (o cualquier sinonimo de adicionar).
El monto siempre debe ser positivo.
La categoría debe estar dentro del siguiente listado: %s. Nota: Si se recibe una palabra con errores ortográficos o con tilde (por ejemplo, alimentación), esta debe normalizarse eliminando las tildes y considerarse como alimentacion, a fin de coincidir con las categorías predefinidas.

Devuelve solo un JSON con las claves: "tipo" (texto gasto o ingreso), "monto" (número) y "categoria" (texto exacto del listado). Nada más.
Texto: "%s"`, categorias, textoUsuario)
}
