package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"invoicer/kit/db"
)

type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p *Product) error
}

type SQLRepository struct {
	db db.Client
}

func NewSQLRepository(dbClient db.Client) *SQLRepository {
	return &SQLRepository{db: dbClient}
}

const (
	qProductGet    = "SELECT id, name, price FROM products WHERE id = $1"
	qProductUpsert = "INSERT INTO products (id, name, price) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price"
)

func (r *SQLRepository) Get(ctx context.Context, id string) (*Product, error) {
	row, err := r.db.QueryRow(ctx, qProductGet, id)
	if err != nil {
		log.Printf("layer=repo component=product repo=SQLRepository method=Get id=%s err=%v", id, err)
		return nil, err
	}
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price); err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=product repo=SQLRepository method=Get id=%s err=%v", id, err)
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) Save(ctx context.Context, p *Product) error {
	if err := r.db.Exec(ctx, qProductUpsert, p.ID, p.Name, p.Price); err != nil {
		log.Printf("layer=repo component=product repo=SQLRepository method=Save id=%s err=%v", p.ID, err)
		return err
	}
	return nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]Product
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]Product)}
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cpy := p
	return &cpy, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, p *Product) error {
	r.mu.Lock()
	r.data[p.ID] = *p
	r.mu.Unlock()
	return nil
}

// FileRepository serves a JSON catalog file of id -> {name, price}. Saves
// rewrite the file, so hand-edited catalogs survive restarts.
type FileRepository struct {
	mu   sync.Mutex
	path string
	data map[string]Product
}

func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{path: path, data: make(map[string]Product)}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("layer=repo component=product repo=FileRepository method=NewFileRepository path=%s err=%v", path, err)
		return nil, err
	}
	if err := r.load(); err != nil {
		log.Printf("layer=repo component=product repo=FileRepository method=NewFileRepository path=%s err=%v", path, err)
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var m map[string]Product
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for id, p := range m {
		p.ID = id
		r.data[id] = p
	}
	return nil
}

func (r *FileRepository) persistLocked() error {
	b, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileRepository) Get(ctx context.Context, id string) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cpy := p
	return &cpy, nil
}

func (r *FileRepository) Save(ctx context.Context, p *Product) error {
	r.mu.Lock()
	r.data[p.ID] = *p
	err := r.persistLocked()
	r.mu.Unlock()
	if err != nil {
		log.Printf("layer=repo component=product repo=FileRepository method=Save id=%s err=%v", p.ID, err)
	}
	return err
}
