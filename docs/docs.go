// Package docs expone la especificación Swagger de la API embebida en el binario.
package docs

import (
	_ "embed"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

//go:embed swagger.json
var SwaggerJSON []byte

// Handler Swagger UI en /docs y la especificación en /docs/swagger.json.
// El contenido va embebido: el servidor no depende del directorio de trabajo.
func Handler() fiber.Handler {
	return swagger.New(swagger.Config{
		BasePath:    "/",
		FilePath:    "./docs/swagger.json",
		FileContent: SwaggerJSON,
		Path:        "docs",
		Title:       "Cafeteria API",
	})
}
