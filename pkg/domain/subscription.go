package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses as stored in the remote "subscriptions" table.
// Only "active" grants reservation eligibility.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCancelled = "cancelled"
)

// Subscription is a billing plan purchase, one row in the remote
// "subscriptions" table. Rows are inserted by this client after a successful
// payment and never updated by it.
type Subscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Plan describes a purchasable subscription plan. AmountCents is what gets
// charged through the payment provider; Price is the display string.
type Plan struct {
	Name        string
	Price       string
	AmountCents int
	Sessions    string
	Benefits    []string
	Recommended bool
}

// Currency is the charge currency for every plan.
const Currency = "mxn"

// Plans is the studio's plan catalog, in display order.
var Plans = []Plan{
	{
		Name:        "Semanal",
		Price:       "$299",
		AmountCents: 29900,
		Sessions:    "2 sesiones",
		Benefits: []string{
			"Acceso a clases grupales",
			"Reserva con 24h de anticipación",
			"Flexibilidad semanal",
		},
	},
	{
		Name:        "Mensual",
		Price:       "$999",
		AmountCents: 99900,
		Sessions:    "8 sesiones",
		Benefits: []string{
			"Acceso a clases grupales",
			"Reserva prioritaria",
			"1 clase de evaluación gratis",
			"Cancelación flexible",
		},
		Recommended: true,
	},
	{
		Name:        "Anual",
		Price:       "$9,999",
		AmountCents: 999900,
		Sessions:    "100 sesiones",
		Benefits: []string{
			"Acceso ilimitado a clases",
			"Reserva prioritaria",
			"Evaluaciones mensuales incluidas",
			"Descuento en talleres especiales",
			"Plan nutricional básico",
		},
	},
}

// PlanByName returns the catalog entry for name, or nil if no such plan exists.
func PlanByName(name string) *Plan {
	for i := range Plans {
		if Plans[i].Name == name {
			return &Plans[i]
		}
	}
	return nil
}
