package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Luuiskame/cubicular-api/internal/config"
	"github.com/Luuiskame/cubicular-api/internal/domain/calc"
	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/domain/repository"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
	"github.com/google/uuid"
)

// Persisted form field keys. Structured records (company, client, items) are
// stored as one JSON document each; the rest are plain scalars.
const (
	keyCompanyInfo    = "companyInfo"
	keyClientInfo     = "clientInfo"
	keyItems          = "items"
	keyLogo           = "logo"
	keyDiscount       = "discount"
	keyTax            = "tax"
	keyDiscountLabel  = "discountLabel"
	keyTaxLabel       = "taxLabel"
	keyShowDiscount   = "showDiscount"
	keyShowTax        = "showTax"
	keyNotes          = "notes"
	keyTitle          = "title"
	keyExtraInfo      = "extraInfo"
	keyCurrency       = "currency"
	keyPrimaryColor   = "primaryColor"
	keySecondaryColor = "secondaryColor"
	keyLanguage       = "language"
)

// Adjustment kinds accepted by SetAdjustment and RemoveAdjustment.
const (
	AdjustmentDiscount = "discount"
	AdjustmentTax      = "tax"
)

const persistTimeout = 5 * time.Second

// InvoiceService owns the authoritative in-memory invoice document for the
// session. Every mutation is atomic with respect to the document and is
// mirrored to the form store as a fire-and-forget side effect; a failing
// store never breaks the interactive path.
type InvoiceService struct {
	store    repository.FormStoreRepository
	defaults config.InvoiceConfig

	mu  sync.Mutex
	doc entity.InvoiceDocument
	wg  sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[string]pendingWrite
	draining  bool
}

// pendingWrite is one queued store operation for a key: either the newest
// value to write or a deletion.
type pendingWrite struct {
	value  string
	remove bool
}

// NewInvoiceService creates a new invoice service seeded with the documented
// defaults and a single empty line item.
func NewInvoiceService(store repository.FormStoreRepository, defaults config.InvoiceConfig) *InvoiceService {
	return &InvoiceService{
		store:    store,
		defaults: defaults,
		doc:      defaultDocument(defaults),
		pending:  make(map[string]pendingWrite),
	}
}

func defaultDocument(defaults config.InvoiceConfig) entity.InvoiceDocument {
	return entity.InvoiceDocument{
		Client:   entity.ClientInfo{InvoiceNumber: defaults.NumberPlaceholder},
		Items:    []entity.LineItem{newLineItem()},
		Currency: defaults.Currency,
		Language: defaults.Language,
		Theme: entity.Theme{
			PrimaryColor:   defaults.PrimaryColor,
			SecondaryColor: defaults.SecondaryColor,
		},
	}
}

func newLineItem() entity.LineItem {
	return entity.LineItem{
		ID:        uuid.NewString(),
		Quantity:  "1",
		UnitPrice: "0",
	}
}

// Load restores the persisted form state. Absent keys keep their defaults,
// malformed records are skipped with a warning, and the client date fields
// always reset to empty. A store failure leaves the defaults in place.
func (s *InvoiceService) Load(ctx context.Context) error {
	fields, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := defaultDocument(s.defaults)

	if v, ok := fields[keyCompanyInfo]; ok {
		var company entity.CompanyInfo
		if err := json.Unmarshal([]byte(v), &company); err != nil {
			log.Printf("Warning: skipping malformed %s record: %v", keyCompanyInfo, err)
		} else {
			doc.Company = company
		}
	}
	if v, ok := fields[keyClientInfo]; ok {
		var client entity.ClientInfo
		if err := json.Unmarshal([]byte(v), &client); err != nil {
			log.Printf("Warning: skipping malformed %s record: %v", keyClientInfo, err)
		} else {
			// Dates are session-only and never survive a reload.
			client.Date = ""
			client.DueDate = ""
			doc.Client = client
		}
	}
	if v, ok := fields[keyItems]; ok {
		var items []entity.LineItem
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			log.Printf("Warning: skipping malformed %s record: %v", keyItems, err)
		} else if len(items) > 0 {
			doc.Items = items
		}
	}

	if v, ok := fields[keyLogo]; ok {
		doc.Logo = v
	}
	if v, ok := fields[keyNotes]; ok {
		doc.Notes = v
	}
	if v, ok := fields[keyTitle]; ok {
		doc.Title = v
	}
	if v, ok := fields[keyExtraInfo]; ok {
		doc.ExtraInfo = v
	}
	if v, ok := fields[keyCurrency]; ok {
		doc.Currency = v
	}
	if v, ok := fields[keyLanguage]; ok {
		doc.Language = v
	}
	if v, ok := fields[keyPrimaryColor]; ok {
		doc.Theme.PrimaryColor = v
	}
	if v, ok := fields[keySecondaryColor]; ok {
		doc.Theme.SecondaryColor = v
	}

	doc.Discount = loadAdjustment(fields, keyDiscount, keyDiscountLabel, keyShowDiscount)
	doc.Tax = loadAdjustment(fields, keyTax, keyTaxLabel, keyShowTax)

	s.doc = doc
	return nil
}

func loadAdjustment(fields map[string]string, valueKey, labelKey, visibleKey string) entity.Adjustment {
	var adj entity.Adjustment
	adj.Value = entity.FlexValue(fields[valueKey])
	adj.Label = fields[labelKey]
	if v, ok := fields[visibleKey]; ok {
		visible, err := strconv.ParseBool(v)
		adj.Visible = err == nil && visible
	}
	return adj
}

// Document returns a point-in-time snapshot of the invoice together with its
// freshly computed totals.
func (s *InvoiceService) Document() (entity.InvoiceDocument, calc.Breakdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc.Clone()
	return doc, calc.Compute(doc.Items, doc.Discount, doc.Tax)
}

// Totals recomputes the totals breakdown for the current document.
func (s *InvoiceService) Totals() calc.Breakdown {
	_, totals := s.Document()
	return totals
}

// AddItem appends a fresh line item at the end of the list and returns the
// updated ordered list.
func (s *InvoiceService) AddItem() []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Items = append(s.doc.Items, newLineItem())
	s.persistItemsLocked()

	return cloneItems(s.doc.Items)
}

// RemoveItem deletes the item with the given id, preserving the order of the
// remaining items. Removing an unknown id is a silent no-op.
func (s *InvoiceService) RemoveItem(id string) []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.doc.Items[:0]
	removed := false
	for _, item := range s.doc.Items {
		if item.ID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if removed {
		s.doc.Items = kept
		s.persistItemsLocked()
	}

	return cloneItems(s.doc.Items)
}

// UpdateItem replaces one named field on the matching item, leaving the rest
// of the item and the list order untouched. Unknown ids and unknown field
// names are silent no-ops.
func (s *InvoiceService) UpdateItem(id, field, value string) []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Items {
		if s.doc.Items[i].ID != id {
			continue
		}
		switch field {
		case "description":
			s.doc.Items[i].Description = value
		case "quantity":
			s.doc.Items[i].Quantity = entity.FlexValue(value)
		case "unit_price", "price":
			s.doc.Items[i].UnitPrice = entity.FlexValue(value)
		default:
			return cloneItems(s.doc.Items)
		}
		s.persistItemsLocked()
		break
	}

	return cloneItems(s.doc.Items)
}

// UpdateCompanyField applies a keyed update to one company field, preserving
// all other fields. Unknown field names are silent no-ops.
func (s *InvoiceService) UpdateCompanyField(field, value string) entity.CompanyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := true
	switch field {
	case "name":
		s.doc.Company.Name = value
	case "owner_name":
		s.doc.Company.OwnerName = value
	case "address":
		s.doc.Company.Address = value
	case "city_state_zip":
		s.doc.Company.CityStateZip = value
	case "country":
		s.doc.Company.Country = value
	default:
		changed = false
	}
	if changed {
		s.persistJSONLocked(keyCompanyInfo, s.doc.Company)
	}
	return s.doc.Company
}

// UpdateClientField applies a keyed update to one client field, preserving
// all other fields. Unknown field names are silent no-ops.
func (s *InvoiceService) UpdateClientField(field, value string) entity.ClientInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := true
	switch field {
	case "name":
		s.doc.Client.Name = value
	case "address":
		s.doc.Client.Address = value
	case "city_state_zip":
		s.doc.Client.CityStateZip = value
	case "country":
		s.doc.Client.Country = value
	case "additional_info":
		s.doc.Client.AdditionalInfo = value
	case "invoice_number":
		s.doc.Client.InvoiceNumber = value
	case "date":
		s.doc.Client.Date = value
	case "due_date":
		s.doc.Client.DueDate = value
	default:
		changed = false
	}
	if changed {
		s.persistClientLocked()
	}
	return s.doc.Client
}

// UpdateMetaField applies a keyed update to one of the free-standing document
// fields (title, extra info, notes, currency, logo). Unknown field names are
// silent no-ops.
func (s *InvoiceService) UpdateMetaField(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "title":
		s.doc.Title = value
		s.persistLocked(keyTitle, value)
	case "extra_info":
		s.doc.ExtraInfo = value
		s.persistLocked(keyExtraInfo, value)
	case "notes":
		s.doc.Notes = value
		s.persistLocked(keyNotes, value)
	case "currency":
		s.doc.Currency = value
		s.persistLocked(keyCurrency, value)
	case "logo":
		s.doc.Logo = value
		s.persistLocked(keyLogo, value)
	}
}

// SetAdjustment makes the discount or tax visible and stores its label and
// percentage value.
func (s *InvoiceService) SetAdjustment(kind, label, value string) (entity.Adjustment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adj := s.adjustmentLocked(kind)
	if adj == nil {
		return entity.Adjustment{}, false
	}

	adj.Visible = true
	adj.Label = label
	adj.Value = entity.FlexValue(value)
	s.persistAdjustmentLocked(kind)

	return *adj, true
}

// RemoveAdjustment hides the discount or tax. The hide is destructive: the
// stored value and label are cleared in memory and deleted from the store,
// not kept for a later re-show.
func (s *InvoiceService) RemoveAdjustment(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	adj := s.adjustmentLocked(kind)
	if adj == nil {
		return false
	}

	adj.Visible = false
	adj.Label = ""
	adj.Value = ""
	s.removeAdjustmentLocked(kind)
	return true
}

func (s *InvoiceService) adjustmentLocked(kind string) *entity.Adjustment {
	switch kind {
	case AdjustmentDiscount:
		return &s.doc.Discount
	case AdjustmentTax:
		return &s.doc.Tax
	}
	return nil
}

// SetTheme updates the two accent colors shared by both renderers.
func (s *InvoiceService) SetTheme(primary, secondary string) entity.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if primary != "" {
		s.doc.Theme.PrimaryColor = primary
		s.persistLocked(keyPrimaryColor, primary)
	}
	if secondary != "" {
		s.doc.Theme.SecondaryColor = secondary
		s.persistLocked(keySecondaryColor, secondary)
	}
	return s.doc.Theme
}

// SetLanguage switches the label language. Unknown languages are stored as
// given; lookup falls back to English per key.
func (s *InvoiceService) SetLanguage(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Language = lang
	s.persistLocked(keyLanguage, lang)
}

// Export bundles everything the external rendering capability needs: the
// resolved document, the translated labels, and a deterministic file name.
type Export struct {
	Document entity.InvoiceDocument
	Totals   calc.Breakdown
	Labels   i18n.Labels
	Filename string
}

// BuildExport takes a point-in-time snapshot of the document for export.
// Edits made after this call do not affect the returned bundle.
func (s *InvoiceService) BuildExport() Export {
	doc, totals := s.Document()
	return Export{
		Document: doc,
		Totals:   totals,
		Labels:   i18n.ResolveLabels(doc.Language),
		Filename: exportFileName(doc.Client.InvoiceNumber),
	}
}

// exportFileName derives the download name from the invoice number, falling
// back to a generic name when the number is empty or unusable. Letters and
// digits in any script are kept; only separators and symbols are dropped.
func exportFileName(invoiceNumber string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, strings.TrimSpace(invoiceNumber))
	if strings.Trim(cleaned, "-_.") == "" {
		return "invoice.pdf"
	}
	return strings.Trim(cleaned, ".") + ".pdf"
}

// Flush waits for all in-flight persistence writes to settle. Used on
// shutdown and in tests; the interactive path never blocks on it.
func (s *InvoiceService) Flush() {
	s.wg.Wait()
}

func cloneItems(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	copy(out, items)
	return out
}

// persistLocked queues one scalar write for the background drainer without
// blocking the caller. Queued writes to the same key coalesce, so the newest
// edit is always the one that lands in the store.
func (s *InvoiceService) persistLocked(key, value string) {
	s.enqueue(key, pendingWrite{value: value})
}

// removeLocked queues deletion of a stored field.
func (s *InvoiceService) removeLocked(key string) {
	s.enqueue(key, pendingWrite{remove: true})
}

func (s *InvoiceService) enqueue(key string, w pendingWrite) {
	s.pendingMu.Lock()
	s.pending[key] = w
	if !s.draining {
		s.draining = true
		s.wg.Add(1)
		go s.drainPending()
	}
	s.pendingMu.Unlock()
}

// drainPending applies queued writes one at a time. A single drainer means a
// newer edit can only replace its queued predecessor, never race an in-flight
// older write for the same key. Failures are logged and dropped; the
// in-memory document stays authoritative for the session.
func (s *InvoiceService) drainPending() {
	defer s.wg.Done()
	for {
		s.pendingMu.Lock()
		var key string
		var w pendingWrite
		found := false
		for k, v := range s.pending {
			key, w, found = k, v, true
			break
		}
		if !found {
			s.draining = false
			s.pendingMu.Unlock()
			return
		}
		delete(s.pending, key)
		s.pendingMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		var err error
		if w.remove {
			err = s.store.Delete(ctx, key)
		} else {
			err = s.store.Set(ctx, key, w.value)
		}
		cancel()
		if err != nil {
			log.Printf("Warning: failed to persist form field %q: %v", key, err)
		}
	}
}

func (s *InvoiceService) persistJSONLocked(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: failed to encode form field %q: %v", key, err)
		return
	}
	s.persistLocked(key, string(data))
}

func (s *InvoiceService) persistItemsLocked() {
	s.persistJSONLocked(keyItems, s.doc.Items)
}

// persistClientLocked stores the client record with the date fields blanked:
// dates intentionally never survive a reload.
func (s *InvoiceService) persistClientLocked() {
	client := s.doc.Client
	client.Date = ""
	client.DueDate = ""
	s.persistJSONLocked(keyClientInfo, client)
}

func (s *InvoiceService) persistAdjustmentLocked(kind string) {
	switch kind {
	case AdjustmentDiscount:
		s.persistLocked(keyDiscount, s.doc.Discount.Value.String())
		s.persistLocked(keyDiscountLabel, s.doc.Discount.Label)
		s.persistLocked(keyShowDiscount, strconv.FormatBool(s.doc.Discount.Visible))
	case AdjustmentTax:
		s.persistLocked(keyTax, s.doc.Tax.Value.String())
		s.persistLocked(keyTaxLabel, s.doc.Tax.Label)
		s.persistLocked(keyShowTax, strconv.FormatBool(s.doc.Tax.Visible))
	}
}

// removeAdjustmentLocked deletes the stored keys of a hidden adjustment so a
// reload starts from a clean, hidden state.
func (s *InvoiceService) removeAdjustmentLocked(kind string) {
	switch kind {
	case AdjustmentDiscount:
		s.removeLocked(keyDiscount)
		s.removeLocked(keyDiscountLabel)
		s.removeLocked(keyShowDiscount)
	case AdjustmentTax:
		s.removeLocked(keyTax)
		s.removeLocked(keyTaxLabel)
		s.removeLocked(keyShowTax)
	}
}
