// Package ticket renders the provisioning request handed to the back-office
// team. The text is consumed by people following a manual process, so every
// fixed string is part of the contract.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/package-service/internal/domain"
)

const (
	// TimestampLayout mirrors the es-ES short date-time the back office expects.
	TimestampLayout = "2/1/2006, 15:04:05"

	noDescription = "Sin descripción adicional"
	baseLogicNote = "Este producto define los flujos de negocio del paquete"
	mnoNote       = "NOTA: Los servicios de telecomunicaciones requieren validación de acuerdos técnicos y comerciales con la MNO."
	manualNote    = "Este ticket requiere configuración manual por parte del equipo de soporte central."
)

// Generator renders ticket text. The zero value stamps times in UTC.
type Generator struct {
	Location *time.Location
}

// NewGenerator returns a generator stamping times in loc.
func NewGenerator(loc *time.Location) *Generator {
	return &Generator{Location: loc}
}

// Render produces the artifact for item, stamped with generatedAt. Output
// depends only on its arguments.
func (g *Generator) Render(item *domain.PackageItem, generatedAt time.Time) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("SOLICITUD DE CREACIÓN DE PAQUETE COMERCIAL")
	line("")
	line("Nombre del Paquete: %s", item.Name)
	line("Precio: $%s", item.Price.String())
	line("")
	line("PRODUCTO BASE:")
	line("- Nombre: %s", item.BaseProduct.Name)
	line("- Proveedor: %s", item.BaseProduct.Provider)
	line("- Tipo: %s", item.BaseProduct.Type)
	line("- Lógica: %s", baseLogicNote)
	line("")
	line("PRODUCTOS COMPLEMENTARIOS (%d):", len(item.ComplementaryProducts))
	for i, p := range item.ComplementaryProducts {
		line("%d. %s (%s) - %s", i+1, p.Name, p.Provider, p.Type)
	}
	line("")

	if telco := item.TelcoServices; telco != nil {
		line("SERVICIOS DE TELECOMUNICACIONES:")
		line("- Datos Móviles: %s", telco.Data)
		line("- Minutos de Voz: %s", telco.Voice)
		line("- SMS: %s", telco.SMS)
		line("")
		line(mnoNote)
		line("")
	}

	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = noDescription
	}
	line("DESCRIPCIÓN ADICIONAL:")
	line("%s", description)
	line("")
	line("---")
	line(manualNote)
	b.WriteString("Fecha de solicitud: ")
	b.WriteString(g.stamp(generatedAt))

	return b.String()
}

// Local converts t into the generator's stamping location.
func (g *Generator) Local(t time.Time) time.Time {
	if g.Location == nil {
		return t.In(time.UTC)
	}
	return t.In(g.Location)
}

func (g *Generator) stamp(t time.Time) string {
	return g.Local(t).Format(TimestampLayout)
}
