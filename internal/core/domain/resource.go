package domain

import (
	"fmt"
	"slices"
)

// FieldOwner is the field every owned resource uses to reference its Client.
const FieldOwner = "clientId"

// ResourceKind describes an owned business record and the table it lives in.
type ResourceKind struct {
	Name  string
	Table string
	// Mutable lists the fields an update may touch. The owner field is
	// never mutable.
	Mutable []string
	// Defaults are applied on create for fields the caller left empty.
	Defaults Record
	// Enums restricts string fields to a fixed set of values.
	Enums map[string][]string
}

var (
	KindAudit = ResourceKind{
		Name:     "audit",
		Table:    "Audit",
		Mutable:  []string{"type", "status", "expertId", "comments", "montantPotentiel", "montantRecupere", "charterSigned", "currentStep"},
		Defaults: Record{"currentStep": 1, "charterSigned": false},
		Enums:    map[string][]string{"type": AuditTypes},
	}
	KindSimulation = ResourceKind{
		Name:     "simulation",
		Table:    "Simulation",
		Mutable:  []string{"type", "status", "data", "results"},
		Defaults: Record{"status": "pending"},
	}
	KindEligibility = ResourceKind{
		Name:     "eligibility",
		Table:    "ClientProduitEligible",
		Mutable:  []string{"status", "simulationId", "montantFinal", "tauxFinal", "dureeFinale"},
		Defaults: Record{"status": "eligible"},
	}
)

// AuditTypes are the audit programmes a client can open.
var AuditTypes = []string{"TICPE", "CII", "CIR", "Foncier", "URSSAF", "DFS", "MSA"}

// Patch keeps only the fields of p that an update of this kind may change.
func (k ResourceKind) Patch(p Record) Record {
	out := make(Record, len(p))
	for _, f := range k.Mutable {
		if v, ok := p[f]; ok {
			out[f] = v
		}
	}
	return out
}

// CheckEnums rejects enum fields of rec holding a value outside their set.
func (k ResourceKind) CheckEnums(rec Record) error {
	for field, allowed := range k.Enums {
		v, ok := rec[field]
		if !ok {
			continue
		}
		s, _ := v.(string)
		if !slices.Contains(allowed, s) {
			return fmt.Errorf("%w: %s must be one of %v", ErrInvalidInput, field, allowed)
		}
	}
	return nil
}

// OwnerOf returns the id of the Client owning rec.
func OwnerOf(rec Record) string {
	return rec.String(FieldOwner)
}
