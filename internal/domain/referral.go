package domain

import "strings"

// FallbackReferral es el link usado cuando no hay mapping ni default configurado.
const FallbackReferral = "#"

// Referrals mapea el id de proyecto (en minúsculas) a su link de referido.
type Referrals struct {
	Projects map[string]string `json:"projects"`
	Default  string            `json:"default"`
}

// EmptyReferrals devuelve un mapping vacío con el fallback como default.
func EmptyReferrals() Referrals {
	return Referrals{Projects: map[string]string{}, Default: FallbackReferral}
}

// Link resuelve el link de referido de un proyecto, sin distinguir mayúsculas.
func (r Referrals) Link(project string) string {
	if url, ok := r.Projects[strings.ToLower(project)]; ok {
		return url
	}
	if r.Default != "" {
		return r.Default
	}
	return FallbackReferral
}
