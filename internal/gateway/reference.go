package gateway

import (
	"fmt"
	"regexp"
)

// Reference is the structured identity embedded in a gateway payment's
// external reference. The grammar is a wire contract shared with every
// charge the platform has ever issued:
//
//	cliente_<tenantId>_usuario_<userId>[_inscricao_<registrationId>]
//
// Changing it breaks reconciliation of in-flight charges.
type Reference struct {
	TenantID       string
	UserID         string
	RegistrationID string
}

var referencePattern = regexp.MustCompile(`^cliente_([0-9A-Za-z]+)_usuario_([0-9A-Za-z]+)(?:_inscricao_([0-9A-Za-z]+))?$`)

// ParseReference parses an external reference string. The second return is
// false when the string does not follow the grammar.
func ParseReference(raw string) (Reference, bool) {
	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, false
	}
	return Reference{
		TenantID:       m[1],
		UserID:         m[2],
		RegistrationID: m[3],
	}, true
}

// FormatReference renders a Reference back into the wire grammar.
func FormatReference(ref Reference) string {
	out := fmt.Sprintf("cliente_%s_usuario_%s", ref.TenantID, ref.UserID)
	if ref.RegistrationID != "" {
		out += "_inscricao_" + ref.RegistrationID
	}
	return out
}
