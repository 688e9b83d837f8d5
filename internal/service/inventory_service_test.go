package service

import (
	"errors"
	"testing"

	"github.com/manish-terminal/Elastomechwork/models"
)

func newInventoryService(repo *fakeInventoryRepo) *InventoryService {
	return NewInventoryService(repo, testLogger())
}

func TestInventoryService_CreateAndGet(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newInventoryService(repo)

	item, err := svc.CreateItem(CreateInventoryItemRequest{
		Name:     "Carbon Black",
		Category: models.KindChemical,
		Rate:     1.80,
		Quantity: 250,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected item id to be assigned")
	}

	fetched, err := svc.GetItemByID(item.ID)
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if fetched.Name != "Carbon Black" || fetched.Quantity != 250 {
		t.Errorf("unexpected item: %+v", fetched)
	}
}

func TestInventoryService_GetItemByID_EmptyID(t *testing.T) {
	svc := newInventoryService(newFakeInventoryRepo())

	_, err := svc.GetItemByID("")
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryService_AdjustStock(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.stock("Zinc Oxide", models.KindChemical, 4.00, 10)
	svc := newInventoryService(repo)

	item, err := svc.AdjustStock("Zinc Oxide", AdjustStockRequest{Delta: -4.5})
	if err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if !almostEqual(item.Quantity, 5.5) {
		t.Errorf("expected remaining 5.5, got %g", item.Quantity)
	}

	item, err = svc.AdjustStock("Zinc Oxide", AdjustStockRequest{Delta: 2})
	if err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if !almostEqual(item.Quantity, 7.5) {
		t.Errorf("expected restocked 7.5, got %g", item.Quantity)
	}
}

func TestInventoryService_AdjustStock_RejectsZeroDelta(t *testing.T) {
	svc := newInventoryService(newFakeInventoryRepo())

	_, err := svc.AdjustStock("Zinc Oxide", AdjustStockRequest{Delta: 0})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryService_AdjustStock_NeverGoesNegative(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.stock("Zinc Oxide", models.KindChemical, 4.00, 3)
	svc := newInventoryService(repo)

	_, err := svc.AdjustStock("Zinc Oxide", AdjustStockRequest{Delta: -3.1})
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := repo.quantity("Zinc Oxide"); !almostEqual(got, 3) {
		t.Errorf("rejected adjustment still moved stock: %g", got)
	}

	// Draining to exactly zero is allowed.
	item, err := svc.AdjustStock("Zinc Oxide", AdjustStockRequest{Delta: -3})
	if err != nil {
		t.Fatalf("AdjustStock to zero failed: %v", err)
	}
	if item.Quantity != 0 {
		t.Errorf("expected zero balance, got %g", item.Quantity)
	}
}

func TestInventoryService_StockValuation(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.stock("Natural Rubber", models.KindRubber, 2.50, 4)
	repo.stock("Accelerator", models.KindChemical, 0.1, 3)
	svc := newInventoryService(repo)

	report, err := svc.StockValuation()
	if err != nil {
		t.Fatalf("StockValuation failed: %v", err)
	}

	if len(report.Items) != 2 {
		t.Fatalf("expected 2 valuation lines, got %d", len(report.Items))
	}

	values := map[string]string{}
	for _, line := range report.Items {
		values[line.Name] = line.Value
	}
	if values["Natural Rubber"] != "10.00" {
		t.Errorf("expected Natural Rubber value 10.00, got %s", values["Natural Rubber"])
	}
	// 0.1 * 3 stays exact under decimal arithmetic
	if values["Accelerator"] != "0.30" {
		t.Errorf("expected Accelerator value 0.30, got %s", values["Accelerator"])
	}
	if report.TotalValue != "10.30" {
		t.Errorf("expected total 10.30, got %s", report.TotalValue)
	}
}

func TestInventoryService_StockValuation_Empty(t *testing.T) {
	svc := newInventoryService(newFakeInventoryRepo())

	report, err := svc.StockValuation()
	if err != nil {
		t.Fatalf("StockValuation failed: %v", err)
	}
	if len(report.Items) != 0 {
		t.Errorf("expected no lines, got %d", len(report.Items))
	}
	if report.TotalValue != "0.00" {
		t.Errorf("expected total 0.00, got %s", report.TotalValue)
	}
}
