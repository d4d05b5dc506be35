package equipment

import "testing"

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr error
	}{
		{"valid", Item{Name: "Mixer", Quantity: 1, Condition: ConditionGood}, nil},
		{"no name", Item{Quantity: 1, Condition: ConditionGood}, ErrEmptyName},
		{"negative quantity", Item{Name: "Chairs", Quantity: -2, Condition: ConditionGood}, ErrNegativeQuantity},
		{"bad condition", Item{Name: "Chairs", Quantity: 2, Condition: "Broken"}, ErrInvalidCondition},
		{"bad date", Item{Name: "Chairs", Quantity: 2, Condition: ConditionFair, PurchaseDate: "yesterday"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.item.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestItem_NeedsAttention(t *testing.T) {
	for cond, want := range map[string]bool{
		ConditionGood:        false,
		ConditionFair:        false,
		ConditionPoor:        true,
		ConditionNeedsRepair: true,
	} {
		i := Item{Condition: cond}
		if got := i.NeedsAttention(); got != want {
			t.Errorf("NeedsAttention(%s) = %v, want %v", cond, got, want)
		}
	}
}
