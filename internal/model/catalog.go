package model

import "strings"

// Provider roles a specialization can be offered to.
const (
	RoleDoctor          = "doctor"
	RoleNurse           = "nurse"
	RolePhysiotherapist = "physiotherapist"
	RoleSocialWorker    = "social worker"
	RolePatient         = "patient"
)

// ProviderRoles lists the health-provider roles in display order.
var ProviderRoles = []string{RoleDoctor, RoleNurse, RolePhysiotherapist, RoleSocialWorker}

// IsHealthProvider reports whether role is one of ProviderRoles.
func IsHealthProvider(role string) bool {
	for _, r := range ProviderRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Specialization is a medical specialization offered to one or more provider roles.
type Specialization struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Role        Roles  `json:"role"`
	CreatedAt   Time   `json:"createdAt"`
}

// Chips returns the role labels title-cased, e.g. "Social Worker".
func (s Specialization) Chips() []string {
	out := make([]string, 0, len(s.Role))
	for _, r := range s.Role {
		out = append(out, TitleCase(r))
	}
	return out
}

// Ailment is a treatable condition priced under a specialization.
type Ailment struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Cost           Flex   `json:"cost"`
	Specialization Ref    `json:"specialization"`
	CreatedAt      Time   `json:"createdAt"`
}

// FAQ entry shown in the patient app.
type FAQ struct {
	ID        string `json:"_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt Time   `json:"createdAt"`
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
