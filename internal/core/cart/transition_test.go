package cart

import (
	"reflect"
	"testing"

	"github.com/vietddude/storefront/internal/core/domain"
)

func product(id string) domain.Product {
	return domain.Product{ID: id, Title: "Product " + id, Price: 10, Stock: 5}
}

func line(id string, qty int) domain.LineItem {
	return domain.LineItem{Product: product(id), Quantity: qty}
}

func TestApply_LoadReplacesState(t *testing.T) {
	states := []domain.CartState{
		nil,
		{line("A", 1)},
		{line("A", 1), line("B", 2)},
	}
	items := []domain.LineItem{line("C", 4)}

	for _, s := range states {
		next := Apply(s, Load(items))
		if !reflect.DeepEqual([]domain.LineItem(next), items) {
			t.Errorf("Load over %v = %v, want %v", s, next, items)
		}
	}
}

func TestApply_AddNewProductAppends(t *testing.T) {
	s := domain.CartState{line("A", 1)}
	next := Apply(s, Add(product("B"), 3))

	want := domain.CartState{line("A", 1), line("B", 3)}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("got %v, want %v", next, want)
	}
}

func TestApply_AddExistingProductIncrements(t *testing.T) {
	s := domain.CartState{line("A", 2)}
	next := Apply(s, Add(product("A"), 3))

	if len(next) != 1 || next[0].Quantity != 5 {
		t.Errorf("got %v, want single line A with quantity 5", next)
	}
}

func TestApply_RemoveMissingIDIsNoop(t *testing.T) {
	s := domain.CartState{line("A", 1), line("B", 2)}
	next := Apply(s, Remove("Z"))

	if !reflect.DeepEqual(next, s) {
		t.Errorf("got %v, want unchanged %v", next, s)
	}
}

func TestApply_RemoveDeletesLine(t *testing.T) {
	s := domain.CartState{line("A", 1), line("B", 2), line("C", 3)}
	next := Apply(s, Remove("B"))

	want := domain.CartState{line("A", 1), line("C", 3)}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("got %v, want %v", next, want)
	}
}

func TestApply_AddThenRemoveRoundTrips(t *testing.T) {
	s := domain.CartState{line("A", 1)}
	next := Apply(Apply(s, Add(product("B"), 2)), Remove("B"))

	if !reflect.DeepEqual(next, s) {
		t.Errorf("got %v, want %v", next, s)
	}
}

func TestApply_Update(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		productID string
		wantQty   int
	}{
		{"increase", Increase, "A", 3},
		{"decrease", Decrease, "A", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.CartState{line("A", 2)}
			next := Apply(s, Update(tt.productID, tt.direction))

			if next[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", next[0].Quantity, tt.wantQty)
			}
			if s[0].Quantity != 2 {
				t.Errorf("input state mutated: quantity = %d", s[0].Quantity)
			}
		})
	}
}

func TestApply_UpdateMissingIDIsNoop(t *testing.T) {
	s := domain.CartState{line("A", 2)}
	next := Apply(s, Update("Z", Increase))

	if !reflect.DeepEqual(next, s) {
		t.Errorf("got %v, want unchanged %v", next, s)
	}
}

func TestApply_RevertRestoresSnapshot(t *testing.T) {
	s := domain.CartState{line("A", 1)}
	edited := Apply(s, Add(product("B"), 2))
	next := Apply(edited, Revert(s))

	if !reflect.DeepEqual(next, s) {
		t.Errorf("got %v, want %v", next, s)
	}
}

func TestApply_NeverMutatesInput(t *testing.T) {
	s := domain.CartState{line("A", 2), line("B", 1)}
	snapshot := s.Clone()

	transitions := []Transition{
		Load([]domain.LineItem{line("C", 1)}),
		Add(product("A"), 1),
		Add(product("D"), 1),
		Remove("A"),
		Update("B", Increase),
		Update("B", Decrease),
		Revert(domain.CartState{line("E", 9)}),
	}

	for _, tr := range transitions {
		Apply(s, tr)
		if !reflect.DeepEqual(s, snapshot) {
			t.Fatalf("transition %s mutated input state: %v", tr.Kind, s)
		}
	}
}

func TestApply_Deterministic(t *testing.T) {
	s := domain.CartState{line("A", 2)}
	tr := Add(product("B"), 1)

	first := Apply(s, tr)
	second := Apply(s, tr)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same (state, transition) produced %v and %v", first, second)
	}
}
