package invoice

import (
	"context"
	"log"
	"sync"

	"invoicer/kit/db"
)

type Repository interface {
	Save(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, externalID string) (*Invoice, error)
	ListAll(ctx context.Context) ([]Invoice, error)
}

type SQLRepository struct {
	db db.Client
}

func NewSQLRepository(dbClient db.Client) *SQLRepository {
	return &SQLRepository{db: dbClient}
}

const (
	qInvoiceUpsert = "INSERT INTO invoices (external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (external_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at"
	qInvoiceGet    = "SELECT external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at FROM invoices WHERE external_id = $1"
	qInvoiceList   = "SELECT external_id, product_id, amount, payer_email, description, invoice_url, status, created_at, updated_at FROM invoices"
)

func (r *SQLRepository) Save(ctx context.Context, inv *Invoice) error {
	if err := r.db.Exec(
		ctx,
		qInvoiceUpsert,
		inv.ExternalID,
		inv.ProductID,
		inv.Amount,
		inv.PayerEmail,
		inv.Description,
		inv.InvoiceURL,
		string(inv.Status),
		inv.CreatedAt,
		inv.UpdatedAt,
	); err != nil {
		log.Printf("layer=repo component=invoice repo=SQLRepository method=Save external_id=%s err=%v", inv.ExternalID, err)
		return err
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, externalID string) (*Invoice, error) {
	row, err := r.db.QueryRow(ctx, qInvoiceGet, externalID)
	if err != nil {
		log.Printf("layer=repo component=invoice repo=SQLRepository method=Get external_id=%s err=%v", externalID, err)
		return nil, err
	}
	inv, err := scanInvoice(row.Scan)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=invoice repo=SQLRepository method=Get external_id=%s err=%v", externalID, err)
		}
		return nil, err
	}
	return inv, nil
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, qInvoiceList)
	if err != nil {
		log.Printf("layer=repo component=invoice repo=SQLRepository method=ListAll err=%v", err)
		return nil, err
	}
	defer rows.Close()

	var invs []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			log.Printf("layer=repo component=invoice repo=SQLRepository method=ListAll err=%v", err)
			return nil, err
		}
		invs = append(invs, *inv)
	}
	if err := rows.Err(); err != nil {
		log.Printf("layer=repo component=invoice repo=SQLRepository method=ListAll err=%v", err)
		return nil, err
	}
	return invs, nil
}

func scanInvoice(scan func(dest ...any) error) (*Invoice, error) {
	var inv Invoice
	var status string
	if err := scan(
		&inv.ExternalID,
		&inv.ProductID,
		&inv.Amount,
		&inv.PayerEmail,
		&inv.Description,
		&inv.InvoiceURL,
		&status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Status = Status(status)
	return &inv, nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]*Invoice
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]*Invoice)}
}

func (r *InMemoryRepository) Save(ctx context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *inv
	r.data[inv.ExternalID] = &cpy
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, externalID string) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.data[externalID]
	if !ok {
		log.Printf("layer=repo component=invoice repo=InMemoryRepository method=Get external_id=%s err=%v", externalID, db.ErrNotFound)
		return nil, db.ErrNotFound
	}
	cpy := *inv
	return &cpy, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invs := make([]Invoice, 0, len(r.data))
	for _, inv := range r.data {
		invs = append(invs, *inv)
	}
	return invs, nil
}
