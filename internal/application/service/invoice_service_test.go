package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/Luuiskame/cubicular-api/internal/config"
	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
)

// memoryFormStore is an in-memory FormStoreRepository for tests.
type memoryFormStore struct {
	mu     sync.Mutex
	fields map[string]string
	fail   bool
}

func newMemoryFormStore() *memoryFormStore {
	return &memoryFormStore{fields: make(map[string]string)}
}

func (m *memoryFormStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("store unavailable")
	}
	m.fields[key] = value
	return nil
}

func (m *memoryFormStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("store unavailable")
	}
	delete(m.fields, key)
	return nil
}

func (m *memoryFormStore) List(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("store unavailable")
	}
	out := make(map[string]string, len(m.fields))
	for k, v := range m.fields {
		out[k] = v
	}
	return out, nil
}

func (m *memoryFormStore) get(t *testing.T, key string) (string, bool) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.fields[key]
	return v, ok
}

func testDefaults() config.InvoiceConfig {
	return config.InvoiceConfig{
		Currency:          "$",
		NumberPlaceholder: "INV-001",
		Language:          "en",
		PrimaryColor:      "#1e3a8a",
		SecondaryColor:    "#64748b",
	}
}

func newTestService() (*InvoiceService, *memoryFormStore) {
	store := newMemoryFormStore()
	return NewInvoiceService(store, testDefaults()), store
}

func TestNewInvoiceService_Defaults(t *testing.T) {
	svc, _ := newTestService()
	doc, totals := svc.Document()

	if doc.Currency != "$" {
		t.Fatalf("currency = %q, want $", doc.Currency)
	}
	if doc.Client.InvoiceNumber != "INV-001" {
		t.Fatalf("invoice number = %q", doc.Client.InvoiceNumber)
	}
	if len(doc.Items) != 1 {
		t.Fatalf("expected one initial row, got %d", len(doc.Items))
	}
	if doc.Items[0].Quantity != "1" || doc.Items[0].UnitPrice != "0" {
		t.Fatalf("initial row = %+v", doc.Items[0])
	}
	if doc.Discount.Visible || doc.Tax.Visible {
		t.Fatal("adjustments must default to hidden")
	}
	if totals.GrandTotal != 0 {
		t.Fatalf("grandTotal = %v, want 0", totals.GrandTotal)
	}
}

func TestAddItem_AppendsAtEnd(t *testing.T) {
	svc, _ := newTestService()

	items := svc.AddItem()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	added := items[1]
	if added.ID == "" || added.ID == items[0].ID {
		t.Fatalf("new item needs a fresh unique id: %+v", added)
	}
	if added.Description != "" || added.Quantity != "1" || added.UnitPrice != "0" {
		t.Fatalf("new item defaults wrong: %+v", added)
	}
}

func TestRemoveItem_UnknownIDIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	before, _ := svc.Document()

	after := svc.RemoveItem("no-such-id")
	if len(after) != len(before.Items) {
		t.Fatalf("list length changed: %d -> %d", len(before.Items), len(after))
	}
	if after[0] != before.Items[0] {
		t.Fatalf("list contents changed: %+v", after)
	}
}

func TestRemoveItem_PreservesOrder(t *testing.T) {
	svc, _ := newTestService()
	items := svc.AddItem()
	items = svc.AddItem()
	first, second, third := items[0].ID, items[1].ID, items[2].ID

	after := svc.RemoveItem(second)
	if len(after) != 2 {
		t.Fatalf("expected 2 items, got %d", len(after))
	}
	if after[0].ID != first || after[1].ID != third {
		t.Fatalf("order not preserved: %+v", after)
	}
}

func TestUpdateItem_SingleFieldOnly(t *testing.T) {
	svc, _ := newTestService()
	doc, _ := svc.Document()
	id := doc.Items[0].ID

	svc.UpdateItem(id, "description", "Consulting")
	svc.UpdateItem(id, "quantity", "3")
	items := svc.UpdateItem(id, "price", "150")

	if items[0].Description != "Consulting" || items[0].Quantity != "3" || items[0].UnitPrice != "150" {
		t.Fatalf("item = %+v", items[0])
	}

	// unknown field and unknown id are both silent no-ops
	svc.UpdateItem(id, "color", "red")
	svc.UpdateItem("missing", "description", "ghost")
	doc, totals := svc.Document()
	if doc.Items[0].Description != "Consulting" {
		t.Fatalf("item mutated by no-op update: %+v", doc.Items[0])
	}
	if math.Abs(totals.Subtotal-450) > 1e-9 {
		t.Fatalf("subtotal = %v, want 450", totals.Subtotal)
	}
}

func TestUpdateItem_TransientTextKeepsEditingState(t *testing.T) {
	svc, _ := newTestService()
	doc, _ := svc.Document()
	id := doc.Items[0].ID

	svc.UpdateItem(id, "quantity", "12abc")
	doc, totals := svc.Document()

	if doc.Items[0].Quantity != "12abc" {
		t.Fatalf("stored editing text mutated: %q", doc.Items[0].Quantity)
	}
	if totals.Subtotal != 0 {
		t.Fatalf("unparseable quantity must compute as 0, got %v", totals.Subtotal)
	}
}

func TestAdjustments_EndToEndScenario(t *testing.T) {
	svc, _ := newTestService()
	doc, _ := svc.Document()
	id := doc.Items[0].ID
	svc.UpdateItem(id, "description", "Consulting")
	svc.UpdateItem(id, "quantity", "3")
	svc.UpdateItem(id, "price", "150")

	if got := svc.Totals().Subtotal; math.Abs(got-450) > 1e-9 {
		t.Fatalf("subtotal = %v", got)
	}

	if _, ok := svc.SetAdjustment(AdjustmentTax, "", "16"); !ok {
		t.Fatal("tax adjustment rejected")
	}
	if got := svc.Totals().GrandTotal; math.Abs(got-522) > 1e-9 {
		t.Fatalf("grandTotal with tax = %v, want 522", got)
	}

	if _, ok := svc.SetAdjustment(AdjustmentDiscount, "", "10"); !ok {
		t.Fatal("discount adjustment rejected")
	}
	totals := svc.Totals()
	if math.Abs(totals.DiscountAmount-45) > 1e-9 {
		t.Fatalf("discountAmount = %v, want 45", totals.DiscountAmount)
	}
	if math.Abs(totals.TaxAmount-64.8) > 1e-9 {
		t.Fatalf("taxAmount = %v, want 64.8", totals.TaxAmount)
	}
	if math.Abs(totals.GrandTotal-469.8) > 1e-9 {
		t.Fatalf("grandTotal = %v, want 469.8", totals.GrandTotal)
	}
}

func TestRemoveAdjustment_HideIsDestructive(t *testing.T) {
	svc, _ := newTestService()

	svc.SetAdjustment(AdjustmentDiscount, "Loyalty", "25")
	if !svc.RemoveAdjustment(AdjustmentDiscount) {
		t.Fatal("expected known kind to be accepted")
	}

	doc, _ := svc.Document()
	if doc.Discount.Visible {
		t.Fatal("discount still visible after removal")
	}
	if doc.Discount.Value != "" || doc.Discount.Label != "" {
		t.Fatalf("hide must clear the stored value, got %+v", doc.Discount)
	}

	// re-showing starts from empty, not the prior 25
	adj, _ := svc.SetAdjustment(AdjustmentDiscount, "", "")
	if adj.Value != "" {
		t.Fatalf("re-shown value = %q, want empty", adj.Value)
	}

	if svc.RemoveAdjustment("shipping") {
		t.Fatal("unknown adjustment kind must be rejected")
	}
}

func TestHiddenAdjustmentResidualValueIgnored(t *testing.T) {
	svc, _ := newTestService()
	doc, _ := svc.Document()
	svc.UpdateItem(doc.Items[0].ID, "price", "100")

	svc.SetAdjustment(AdjustmentTax, "", "50")
	svc.RemoveAdjustment(AdjustmentTax)

	totals := svc.Totals()
	if totals.GrandTotal != totals.Subtotal {
		t.Fatalf("hidden tax leaked into totals: %+v", totals)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	svc, store := newTestService()

	svc.UpdateCompanyField("name", "Acme Studio")
	svc.UpdateClientField("name", "Jane Roe")
	svc.UpdateClientField("date", "2026-09-01")
	svc.UpdateMetaField("currency", "lps")
	svc.UpdateMetaField("notes", "net 30")
	doc, _ := svc.Document()
	svc.UpdateItem(doc.Items[0].ID, "description", "Consulting")
	svc.Flush()

	reloaded := NewInvoiceService(store, testDefaults())
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, _ := reloaded.Document()

	if got.Company.Name != "Acme Studio" {
		t.Fatalf("company name = %q", got.Company.Name)
	}
	if got.Client.Name != "Jane Roe" {
		t.Fatalf("client name = %q", got.Client.Name)
	}
	if got.Client.Date != "" {
		t.Fatalf("client date must reset on reload, got %q", got.Client.Date)
	}
	if got.Currency != "lps" || got.Notes != "net 30" {
		t.Fatalf("scalars not restored: currency=%q notes=%q", got.Currency, got.Notes)
	}
	if got.Items[0].Description != "Consulting" {
		t.Fatalf("items not restored: %+v", got.Items)
	}
}

// stallingStore blocks its first Set until released, exposing write-ordering
// bugs between rapid edits to the same field.
type stallingStore struct {
	*memoryFormStore
	release chan struct{}
	stalled chan struct{}
	once    sync.Once
}

func (s *stallingStore) Set(ctx context.Context, key, value string) error {
	s.once.Do(func() {
		close(s.stalled)
		<-s.release
	})
	return s.memoryFormStore.Set(ctx, key, value)
}

func TestPersistence_RapidEditsKeepNewestValue(t *testing.T) {
	base := newMemoryFormStore()
	store := &stallingStore{
		memoryFormStore: base,
		release:         make(chan struct{}),
		stalled:         make(chan struct{}),
	}
	svc := NewInvoiceService(store, testDefaults())

	svc.UpdateMetaField("notes", "old")
	// wait until the first write is in flight, then edit again
	<-store.stalled
	svc.UpdateMetaField("notes", "new")
	close(store.release)
	svc.Flush()

	if got, _ := base.get(t, keyNotes); got != "new" {
		t.Fatalf("persisted notes = %q, the newest edit must win", got)
	}
}

func TestRemoveAdjustment_DeletesStoredKeys(t *testing.T) {
	svc, store := newTestService()

	svc.SetAdjustment(AdjustmentDiscount, "Loyalty", "25")
	svc.Flush()
	if _, ok := store.get(t, keyDiscount); !ok {
		t.Fatal("discount value not persisted")
	}

	svc.RemoveAdjustment(AdjustmentDiscount)
	svc.Flush()
	for _, key := range []string{keyDiscount, keyDiscountLabel, keyShowDiscount} {
		if v, ok := store.get(t, key); ok {
			t.Fatalf("%s still stored after destructive hide: %q", key, v)
		}
	}
}

func TestPersistence_StoreFailureKeepsMemoryAuthoritative(t *testing.T) {
	svc, store := newTestService()
	store.fail = true

	svc.UpdateCompanyField("name", "Acme Studio")
	svc.AddItem()
	svc.Flush()

	doc, _ := svc.Document()
	if doc.Company.Name != "Acme Studio" {
		t.Fatal("in-memory document lost the edit")
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
}

func TestLoad_StoreFailureKeepsDefaults(t *testing.T) {
	svc, store := newTestService()
	store.fail = true

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	doc, _ := svc.Document()
	if doc.Currency != "$" || len(doc.Items) != 1 {
		t.Fatalf("defaults corrupted after failed load: %+v", doc)
	}
}

func TestLoad_MalformedRecordSkipped(t *testing.T) {
	store := newMemoryFormStore()
	store.fields[keyItems] = "{not json"
	store.fields[keyNotes] = "still loads"

	svc := NewInvoiceService(store, testDefaults())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	doc, _ := svc.Document()
	if len(doc.Items) != 1 {
		t.Fatalf("expected default row after malformed items, got %d", len(doc.Items))
	}
	if doc.Notes != "still loads" {
		t.Fatalf("notes = %q", doc.Notes)
	}
}

func TestClientDatesNeverPersisted(t *testing.T) {
	svc, store := newTestService()
	svc.UpdateClientField("due_date", "2026-10-01")
	svc.Flush()

	raw, ok := store.get(t, keyClientInfo)
	if !ok {
		t.Fatal("client record not persisted")
	}
	var client entity.ClientInfo
	if err := json.Unmarshal([]byte(raw), &client); err != nil {
		t.Fatalf("persisted client not valid JSON: %v", err)
	}
	if client.DueDate != "" {
		t.Fatalf("due date leaked into the store: %q", client.DueDate)
	}
}

func TestBuildExport_Snapshot(t *testing.T) {
	svc, _ := newTestService()
	doc, _ := svc.Document()
	svc.UpdateItem(doc.Items[0].ID, "price", "100")

	export := svc.BuildExport()
	if export.Filename != "INV-001.pdf" {
		t.Fatalf("filename = %q", export.Filename)
	}
	if export.Labels.Total != "TOTAL" {
		t.Fatalf("labels not resolved: %+v", export.Labels)
	}

	// edits after the snapshot must not leak into the export bundle
	svc.UpdateItem(doc.Items[0].ID, "price", "999")
	if export.Document.Items[0].UnitPrice != "100" {
		t.Fatalf("export snapshot mutated: %+v", export.Document.Items[0])
	}
	if math.Abs(export.Totals.GrandTotal-100) > 1e-9 {
		t.Fatalf("export grandTotal = %v", export.Totals.GrandTotal)
	}
}

func TestExportFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"INV-042", "INV-042.pdf"},
		{"", "invoice.pdf"},
		{"  ", "invoice.pdf"},
		{"#/..\\", "invoice.pdf"},
		{"- _ .", "invoice.pdf"},
		{"Факт 9", "Факт-9.pdf"},
		{"inv 7", "inv-7.pdf"},
	}
	for _, c := range cases {
		if got := exportFileName(c.in); got != c.want {
			t.Fatalf("exportFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSetLanguage_AffectsExportLabels(t *testing.T) {
	svc, _ := newTestService()
	svc.SetLanguage("es")
	export := svc.BuildExport()
	if export.Labels.Tax != "Impuesto" {
		t.Fatalf("labels not translated: %+v", export.Labels)
	}
}

func TestSetTheme(t *testing.T) {
	svc, _ := newTestService()
	theme := svc.SetTheme("#112233", "")
	if theme.PrimaryColor != "#112233" {
		t.Fatalf("primary = %q", theme.PrimaryColor)
	}
	if theme.SecondaryColor != "#64748b" {
		t.Fatalf("empty secondary must keep the previous color, got %q", theme.SecondaryColor)
	}
}
