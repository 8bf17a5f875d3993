package handler

import "github.com/profitum/platform-api/internal/core/domain"

// recordRequest is a validated request body that renders to a store record.
type recordRequest interface {
	record() domain.Record
}

// ResourceSchema binds the request bodies of one resource kind.
type ResourceSchema struct {
	NewCreate func() recordRequest
	NewUpdate func() recordRequest
}

// set copies non-nil optional fields into r.
func set[T any](r domain.Record, key string, v *T) {
	if v != nil {
		r[key] = *v
	}
}

// ── Audit ─────────────────────────────────────────────────────────────────────

type createAuditRequest struct {
	ClientID string  `json:"clientId" validate:"required"`
	Type     string  `json:"type" validate:"required,oneof=TICPE CII CIR Foncier URSSAF DFS MSA"`
	Status   string  `json:"status" validate:"required"`
	ExpertID *string `json:"expertId,omitempty"`
	Comments *string `json:"comments,omitempty"`
}

func (r *createAuditRequest) record() domain.Record {
	out := domain.Record{
		domain.FieldOwner: r.ClientID,
		"type":            r.Type,
		"status":          r.Status,
	}
	set(out, "expertId", r.ExpertID)
	set(out, "comments", r.Comments)
	return out
}

type updateAuditRequest struct {
	Type             *string  `json:"type,omitempty" validate:"omitempty,oneof=TICPE CII CIR Foncier URSSAF DFS MSA"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,min=1"`
	ExpertID         *string  `json:"expertId,omitempty"`
	Comments         *string  `json:"comments,omitempty"`
	MontantPotentiel *float64 `json:"montantPotentiel,omitempty" validate:"omitempty,gte=0"`
	MontantRecupere  *float64 `json:"montantRecupere,omitempty" validate:"omitempty,gte=0"`
	CharterSigned    *bool    `json:"charterSigned,omitempty"`
	CurrentStep      *int     `json:"currentStep,omitempty" validate:"omitempty,min=1"`
}

func (r *updateAuditRequest) record() domain.Record {
	out := domain.Record{}
	set(out, "type", r.Type)
	set(out, "status", r.Status)
	set(out, "expertId", r.ExpertID)
	set(out, "comments", r.Comments)
	set(out, "montantPotentiel", r.MontantPotentiel)
	set(out, "montantRecupere", r.MontantRecupere)
	set(out, "charterSigned", r.CharterSigned)
	set(out, "currentStep", r.CurrentStep)
	return out
}

// AuditSchema binds audit bodies.
var AuditSchema = ResourceSchema{
	NewCreate: func() recordRequest { return &createAuditRequest{} },
	NewUpdate: func() recordRequest { return &updateAuditRequest{} },
}

// ── Simulation ────────────────────────────────────────────────────────────────

type createSimulationRequest struct {
	ClientID string         `json:"clientId" validate:"required"`
	Type     *string        `json:"type,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (r *createSimulationRequest) record() domain.Record {
	out := domain.Record{domain.FieldOwner: r.ClientID}
	set(out, "type", r.Type)
	if r.Data != nil {
		out["data"] = r.Data
	}
	return out
}

type updateSimulationRequest struct {
	Type    *string        `json:"type,omitempty"`
	Status  *string        `json:"status,omitempty" validate:"omitempty,min=1"`
	Data    map[string]any `json:"data,omitempty"`
	Results map[string]any `json:"results,omitempty"`
}

func (r *updateSimulationRequest) record() domain.Record {
	out := domain.Record{}
	set(out, "type", r.Type)
	set(out, "status", r.Status)
	if r.Data != nil {
		out["data"] = r.Data
	}
	if r.Results != nil {
		out["results"] = r.Results
	}
	return out
}

// SimulationSchema binds simulation bodies.
var SimulationSchema = ResourceSchema{
	NewCreate: func() recordRequest { return &createSimulationRequest{} },
	NewUpdate: func() recordRequest { return &updateSimulationRequest{} },
}

// ── Client-product eligibility ────────────────────────────────────────────────

type createEligibilityRequest struct {
	ClientID     string   `json:"clientId" validate:"required"`
	ProduitID    string   `json:"produitId" validate:"required"`
	SimulationID *string  `json:"simulationId,omitempty"`
	Status       *string  `json:"status,omitempty"`
	MontantFinal *float64 `json:"montantFinal,omitempty" validate:"omitempty,gte=0"`
	TauxFinal    *float64 `json:"tauxFinal,omitempty" validate:"omitempty,gte=0"`
	DureeFinale  *int     `json:"dureeFinale,omitempty" validate:"omitempty,gte=0"`
}

func (r *createEligibilityRequest) record() domain.Record {
	out := domain.Record{
		domain.FieldOwner: r.ClientID,
		"produitId":       r.ProduitID,
	}
	set(out, "simulationId", r.SimulationID)
	set(out, "status", r.Status)
	set(out, "montantFinal", r.MontantFinal)
	set(out, "tauxFinal", r.TauxFinal)
	set(out, "dureeFinale", r.DureeFinale)
	return out
}

type updateEligibilityRequest struct {
	SimulationID *string  `json:"simulationId,omitempty"`
	Status       *string  `json:"status,omitempty"`
	MontantFinal *float64 `json:"montantFinal,omitempty" validate:"omitempty,gte=0"`
	TauxFinal    *float64 `json:"tauxFinal,omitempty" validate:"omitempty,gte=0"`
	DureeFinale  *int     `json:"dureeFinale,omitempty" validate:"omitempty,gte=0"`
}

func (r *updateEligibilityRequest) record() domain.Record {
	out := domain.Record{}
	set(out, "simulationId", r.SimulationID)
	set(out, "status", r.Status)
	set(out, "montantFinal", r.MontantFinal)
	set(out, "tauxFinal", r.TauxFinal)
	set(out, "dureeFinale", r.DureeFinale)
	return out
}

// EligibilitySchema binds client-product eligibility bodies.
var EligibilitySchema = ResourceSchema{
	NewCreate: func() recordRequest { return &createEligibilityRequest{} },
	NewUpdate: func() recordRequest { return &updateEligibilityRequest{} },
}
