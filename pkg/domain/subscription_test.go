package domain

import "testing"

func TestPlanCatalog(t *testing.T) {
	if len(Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(Plans))
	}
	recommended := 0
	for _, p := range Plans {
		if p.AmountCents <= 0 {
			t.Errorf("plan %s has non-positive amount %d", p.Name, p.AmountCents)
		}
		if len(p.Benefits) == 0 {
			t.Errorf("plan %s has no benefits", p.Name)
		}
		if p.Recommended {
			recommended++
		}
	}
	if recommended != 1 {
		t.Fatalf("expected exactly one recommended plan, got %d", recommended)
	}
}

func TestPlanByName(t *testing.T) {
	p := PlanByName("Mensual")
	if p == nil {
		t.Fatal("Mensual not found")
	}
	if p.AmountCents != 99900 {
		t.Fatalf("Mensual amount = %d", p.AmountCents)
	}
	if PlanByName("Diario") != nil {
		t.Fatal("unknown plan should return nil")
	}
}
