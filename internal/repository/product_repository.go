package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/autopro/internal/model"
)

// ProductRepo is the MySQL catalog store.  Specs are kept in a JSON column.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = "id,user_id,name,image,category,description,price,count_in_stock,specs,created_at,updated_at"

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	specs, err := encodeSpecs(p.Specs)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		id, p.UserID, p.Name, p.Image, string(p.Category), p.Description, p.Price, p.CountInStock, specs, now, now)
	if err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List applies the filter in SQL.  The keyword is matched literally: LIKE
// wildcards in it are escaped.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]*model.Product, error) {
	where := []string{}
	args := []any{}
	if f.Keyword != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(f.Keyword))+"%")
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE "+cond+" ORDER BY created_at ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	specs, err := encodeSpecs(p.Specs)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name=?, image=?, category=?, description=?, price=?, count_in_stock=?, specs=?, updated_at=?
		 WHERE id=?`,
		p.Name, p.Image, string(p.Category), p.Description, p.Price, p.CountInStock, specs, now, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 for unchanged rows too; confirm existence.
		if _, err := r.FindByID(ctx, p.ID); err != nil {
			return err
		}
	}
	p.UpdatedAt = now
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM products")
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*model.Product, error) {
	var (
		p     model.Product
		cat   string
		specs []byte
	)
	if err := s.Scan(&p.ID, &p.UserID, &p.Name, &p.Image, &cat, &p.Description, &p.Price,
		&p.CountInStock, &specs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Category = model.Category(cat)
	p.Specs = []model.Spec{}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func encodeSpecs(specs []model.Spec) ([]byte, error) {
	if specs == nil {
		specs = []model.Spec{}
	}
	return json.Marshal(specs)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
