// Package reply renders a Resolution into the WhatsApp-bound message text.
// Every outcome, including failures, produces a user-facing reply string so
// the webhook can always answer in-band.
package reply

import (
	"fmt"
	"strings"

	"github.com/brastec/rep-locator/internal/domain"
)

// Formatter renders resolution outcomes as Portuguese chat replies. Support
// contact details are shown when no representative covers the region.
type Formatter struct {
	SupportName  string
	SupportPhone string
	CutoffKm     float64
}

// Format returns the reply text for a resolution.
func (f Formatter) Format(res domain.Resolution) string {
	switch res.Outcome {
	case domain.OutcomeFixed:
		return f.fixed(res)
	case domain.OutcomeNearest:
		return f.nearest(res)
	case domain.OutcomeNoMatch:
		return f.noMatch()
	default:
		return f.failure(res.Stage)
	}
}

func (f Formatter) fixed(res domain.Resolution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Representante para %s:\n\n", res.Territory)
	fmt.Fprintf(&b, "📍 *%s*\n", res.Assignee.Name)
	fmt.Fprintf(&b, "📞 WhatsApp: https://wa.me/%s", res.Assignee.WhatsApp)
	if res.HasDistance {
		fmt.Fprintf(&b, "\n📏 Distância: %.1f km", res.DistanceKm)
	}
	return b.String()
}

func (f Formatter) nearest(res domain.Resolution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Representante mais próximo do CEP %s:\n\n", res.CEP)
	fmt.Fprintf(&b, "📍 *%s* – %s/%s\n", res.Rep.Name, res.Rep.City, res.Rep.State)
	// Roster phones carry only the local number; prepend the country code.
	fmt.Fprintf(&b, "📞 WhatsApp: https://wa.me/55%s\n", res.Rep.WhatsApp)
	fmt.Fprintf(&b, "📏 Distância: %.1f km", res.DistanceKm)
	return b.String()
}

func (f Formatter) noMatch() string {
	return fmt.Sprintf("❗ Nenhum representante encontrado em até %.0f km no seu estado.\n\n"+
		"Para assuntos gerais, por favor entre em contato com nosso atendimento:\n"+
		"☎️ *%s*\n%s", f.CutoffKm, f.SupportName, f.SupportPhone)
}

func (f Formatter) failure(stage domain.FailureStage) string {
	switch stage {
	case domain.StageInvalidCEP:
		return "❌ CEP inválido ou incompleto. Tente novamente."
	case domain.StageLookup:
		return "❌ Não foi possível consultar o CEP informado. Verifique se está correto."
	default:
		return "❌ Não foi possível localizar sua região geográfica. Tente novamente mais tarde."
	}
}
