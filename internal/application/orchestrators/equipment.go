package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/equipment"
)

// EquipmentStore defines the inventory table operations.
type EquipmentStore interface {
	Create(ctx context.Context, build func(id string) (equipment.Item, error)) (equipment.Item, error)
	Update(ctx context.Context, id string, mutate func(*equipment.Item) error) (equipment.Item, error)
}

// EquipmentDeps holds dependencies for the equipment orchestrators.
type EquipmentDeps struct {
	EquipmentStore EquipmentStore
}

// AddEquipmentInput carries input for the orchestrator.
type AddEquipmentInput struct {
	Name         string
	Category     string
	Quantity     int
	Condition    string // defaults to Good
	Location     string
	PurchaseDate string
	Value        decimal.Decimal
}

// ExecuteAddEquipment adds an inventory line.
// PRE: name present, quantity >= 0
// POST: Item stored
func ExecuteAddEquipment(ctx context.Context, input AddEquipmentInput, deps EquipmentDeps) (equipment.Item, error) {
	cond := input.Condition
	if cond == "" {
		cond = equipment.ConditionGood
	}
	item, err := deps.EquipmentStore.Create(ctx, func(id string) (equipment.Item, error) {
		i := equipment.Item{
			ID:           id,
			Name:         strings.TrimSpace(input.Name),
			Category:     input.Category,
			Quantity:     input.Quantity,
			Condition:    cond,
			Location:     strings.TrimSpace(input.Location),
			PurchaseDate: input.PurchaseDate,
			Value:        input.Value,
		}
		return i, i.Validate()
	})
	if err != nil {
		return equipment.Item{}, err
	}
	slog.Info("equipment_event", "event", "equipment_added", "item_id", item.ID, "quantity", item.Quantity)
	return item, nil
}

// UpdateEquipmentInput carries the fields an inventory check may change. Nil fields are kept.
type UpdateEquipmentInput struct {
	ID        string
	Condition *string
	Quantity  *int
	Location  *string
}

// ExecuteUpdateEquipment records the outcome of an inventory check.
// PRE: ID exists
// POST: Item updated; invalid changes leave it unchanged
func ExecuteUpdateEquipment(ctx context.Context, input UpdateEquipmentInput, deps EquipmentDeps) (equipment.Item, error) {
	item, err := deps.EquipmentStore.Update(ctx, input.ID, func(i *equipment.Item) error {
		if input.Condition != nil {
			i.Condition = *input.Condition
		}
		if input.Quantity != nil {
			i.Quantity = *input.Quantity
		}
		if input.Location != nil {
			i.Location = strings.TrimSpace(*input.Location)
		}
		return i.Validate()
	})
	if err != nil {
		return equipment.Item{}, err
	}
	slog.Info("equipment_event", "event", "equipment_updated", "item_id", item.ID, "condition", item.Condition)
	return item, nil
}
