package db

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"
)

// MockClient is an in-process stand-in for a SQL database. It understands the
// exact query strings issued by the invoice and product repositories and can
// persist the invoice table to a JSON file between runs.
type MockClient struct {
	mu sync.Mutex

	invoices map[string]mockInvoice
	products map[string]mockProduct

	invoicesPersistPath string
}

type mockInvoice struct {
	ExternalID  string    `json:"external_id"`
	ProductID   string    `json:"product_id"`
	Amount      int64     `json:"amount"`
	PayerEmail  string    `json:"payer_email"`
	Description string    `json:"description"`
	InvoiceURL  string    `json:"invoice_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type mockProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type MockOption func(*MockClient) error

func NewMockClient(opts ...MockOption) (*MockClient, error) {
	c := &MockClient{
		invoices: make(map[string]mockInvoice),
		products: make(map[string]mockProduct),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func WithInvoicesJSONFile(path string) MockOption {
	return func(c *MockClient) error {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return errors.Join(ErrInternal, err)
		}
		if len(b) == 0 {
			return nil
		}
		var m map[string]mockInvoice
		if err := json.Unmarshal(b, &m); err != nil {
			return errors.Join(ErrInternal, err)
		}
		c.invoices = m
		return nil
	}
}

func WithInvoicesJSONPersistence(path string) MockOption {
	return func(c *MockClient) error {
		c.invoicesPersistPath = path
		return nil
	}
}

func WithProductsJSONFile(path string) MockOption {
	return func(c *MockClient) error {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return errors.Join(ErrInternal, err)
		}
		if len(b) == 0 {
			return nil
		}
		var m map[string]mockProduct
		if err := json.Unmarshal(b, &m); err != nil {
			return errors.Join(ErrInternal, err)
		}
		c.products = m
		return nil
	}
}

func (c *MockClient) persistInvoicesLocked() error {
	if c.invoicesPersistPath == "" {
		return nil
	}
	dir := filepath.Dir(c.invoicesPersistPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("layer=client component=db method=persistInvoicesLocked path=%s err=%v", c.invoicesPersistPath, err)
		return errors.Join(ErrInternal, err)
	}

	b, err := json.MarshalIndent(c.invoices, "", "  ")
	if err != nil {
		log.Printf("layer=client component=db method=persistInvoicesLocked path=%s err=%v", c.invoicesPersistPath, err)
		return errors.Join(ErrInternal, err)
	}
	b = append(b, '\n')

	tmp := c.invoicesPersistPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		log.Printf("layer=client component=db method=persistInvoicesLocked path=%s err=%v", c.invoicesPersistPath, err)
		return errors.Join(ErrInternal, err)
	}
	if err := os.Rename(tmp, c.invoicesPersistPath); err != nil {
		log.Printf("layer=client component=db method=persistInvoicesLocked path=%s err=%v", c.invoicesPersistPath, err)
		return errors.Join(ErrInternal, err)
	}
	return nil
}

type mockRow struct {
	vals []any
	err  error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return errors.Join(ErrInternal, errors.New("scan arg mismatch"))
	}
	for i := range dest {
		if err := assign(dest[i], r.vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dst, val any) error {
	switch d := dst.(type) {
	case *string:
		v, _ := val.(string)
		*d = v
		return nil
	case *int64:
		v, _ := val.(int64)
		*d = v
		return nil
	case *time.Time:
		v, _ := val.(time.Time)
		*d = v
		return nil
	}
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return errors.Join(ErrInternal, errors.New("unsupported scan type"))
	}
	ev := dv.Elem()
	switch ev.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			ev.SetString(s)
			return nil
		}
	case reflect.Int64:
		if n, ok := val.(int64); ok {
			ev.SetInt(n)
			return nil
		}
	}
	return errors.Join(ErrInternal, errors.New("unsupported scan type"))
}

type mockRows struct {
	rows []*mockRow
	idx  int
	cur  *mockRow
}

func (r *mockRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.cur = r.rows[r.idx]
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	if r.cur == nil {
		return errors.Join(ErrInternal, errors.New("scan before next"))
	}
	return r.cur.Scan(dest...)
}

func (r *mockRows) Close()     {}
func (r *mockRows) Err() error { return nil }

const (
	qMockInvoiceUpsert = "INSERT INTO invoices (external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (external_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at"
	qMockInvoiceGet    = "SELECT external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at FROM invoices WHERE external_id = $1"
	qMockInvoiceList   = "SELECT external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at FROM invoices"
	qMockProductGet    = "SELECT id, name, price FROM products WHERE id = $1"
	qMockProductUpsert = "INSERT INTO products (id, name, price) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price"
)

func toMockString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	return ""
}

func toMockInt64(v any) int64 {
	n, _ := v.(int64)
	return n
}

func toMockTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func (c *MockClient) Exec(ctx context.Context, query string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case qMockInvoiceUpsert:
		if len(args) != 9 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		inv := mockInvoice{
			ExternalID:  toMockString(args[0]),
			ProductID:   toMockString(args[1]),
			Amount:      toMockInt64(args[2]),
			PayerEmail:  toMockString(args[3]),
			Description: toMockString(args[4]),
			InvoiceURL:  toMockString(args[5]),
			Status:      toMockString(args[6]),
			CreatedAt:   toMockTime(args[7]),
			UpdatedAt:   toMockTime(args[8]),
		}
		if prev, ok := c.invoices[inv.ExternalID]; ok {
			// the conflict clause only touches status and updated_at
			prev.Status = inv.Status
			prev.UpdatedAt = inv.UpdatedAt
			inv = prev
		}
		c.invoices[inv.ExternalID] = inv
		return c.persistInvoicesLocked()
	case qMockProductUpsert:
		if len(args) != 3 {
			return errors.Join(ErrInternal, errors.New("invalid args"))
		}
		p := mockProduct{ID: toMockString(args[0]), Name: toMockString(args[1]), Price: toMockInt64(args[2])}
		c.products[p.ID] = p
		return nil
	default:
		log.Printf("layer=client component=db method=Exec err=unsupported query query=%q", query)
		return errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

func (c *MockClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case qMockInvoiceGet:
		if len(args) != 1 {
			return &mockRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
		}
		inv, ok := c.invoices[toMockString(args[0])]
		if !ok {
			return &mockRow{err: ErrNotFound}, nil
		}
		return &mockRow{vals: invoiceVals(inv)}, nil
	case qMockProductGet:
		if len(args) != 1 {
			return &mockRow{err: errors.Join(ErrInternal, errors.New("invalid args"))}, nil
		}
		p, ok := c.products[toMockString(args[0])]
		if !ok {
			return &mockRow{err: ErrNotFound}, nil
		}
		return &mockRow{vals: []any{p.ID, p.Name, p.Price}}, nil
	default:
		log.Printf("layer=client component=db method=QueryRow err=unsupported query query=%q", query)
		return &mockRow{err: errors.Join(ErrInternal, errors.New("unsupported query"))}, nil
	}
}

func (c *MockClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch query {
	case qMockInvoiceList:
		rows := make([]*mockRow, 0, len(c.invoices))
		for _, inv := range c.invoices {
			rows = append(rows, &mockRow{vals: invoiceVals(inv)})
		}
		return &mockRows{rows: rows}, nil
	default:
		log.Printf("layer=client component=db method=Query err=unsupported query query=%q", query)
		return nil, errors.Join(ErrInternal, errors.New("unsupported query"))
	}
}

func (c *MockClient) Ping(ctx context.Context) error { return nil }

func invoiceVals(inv mockInvoice) []any {
	return []any{
		inv.ExternalID,
		inv.ProductID,
		inv.Amount,
		inv.PayerEmail,
		inv.Description,
		inv.InvoiceURL,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
	}
}
