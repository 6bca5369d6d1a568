package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/service/models/menuitem"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var menuColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"category",
	"available",
	"created_at",
	"updated_at",
}

// MenuItemDal represents menu item data access layer model.
type MenuItemDal struct {
	Id          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	Available   bool            `db:"available"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// ToModel converts MenuItemDal to service layer MenuItem model.
func (m *MenuItemDal) ToModel() (menuitem.MenuItem, error) {
	category, err := menuitem.ParseCategory(m.Category)
	if err != nil {
		return menuitem.MenuItem{}, err
	}

	return menuitem.MenuItem{
		ID:          m.Id,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    category,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func scanMenuItem(row pgx.Row) (menuitem.MenuItem, error) {
	var dal MenuItemDal
	if err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.Price,
		&dal.Category,
		&dal.Available,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	); err != nil {
		return menuitem.MenuItem{}, err
	}

	return dal.ToModel()
}

// PostgresMenuRepository represents a Postgres menu repository.
type PostgresMenuRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuRepository creates a new Postgres menu repository.
func NewPostgresMenuRepository(conn postgres.GenericConn) *PostgresMenuRepository {
	return &PostgresMenuRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresMenuRepository) Insert(ctx context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error) {
	query, args, err := r.sb.Insert("menu_items").
		Columns("name", "description", "price", "category", "available", "created_at", "updated_at").
		Values(
			item.Name,
			item.Description,
			item.Price,
			item.Category.String(),
			item.Available,
			item.CreatedAt,
			item.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(menuColumns, ", ")).
		ToSql()
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scanMenuItem(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}

	return created, nil
}

func (r *PostgresMenuRepository) Update(ctx context.Context, item menuitem.MenuItem) (menuitem.MenuItem, error) {
	query, args, err := r.sb.Update("menu_items").
		Set("name", item.Name).
		Set("description", item.Description).
		Set("price", item.Price).
		Set("category", item.Category.String()).
		Set("available", item.Available).
		Set("updated_at", item.UpdatedAt).
		Where(sq.Eq{"id": item.ID}).
		Suffix("RETURNING " + strings.Join(menuColumns, ", ")).
		ToSql()
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanMenuItem(r.conn.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return menuitem.MenuItem{}, menuitem.ErrNotFound
	}
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to update menu item: %w", err)
	}

	return updated, nil
}

func (r *PostgresMenuRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("menu_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return menuitem.ErrNotFound
	}

	return nil
}

func (r *PostgresMenuRepository) GetByID(ctx context.Context, id int64) (menuitem.MenuItem, error) {
	query, args, err := r.sb.Select(menuColumns...).
		From("menu_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanMenuItem(r.conn.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return menuitem.MenuItem{}, menuitem.ErrNotFound
	}
	if err != nil {
		return menuitem.MenuItem{}, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}

// Query retrieves menu items based on filter criteria, ordered by id.
func (r *PostgresMenuRepository) Query(
	ctx context.Context,
	filter *menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	query := r.sb.Select(menuColumns...).
		From("menu_items").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if filter.Category != "" {
		query = query.Where(sq.Eq{"category": filter.Category.String()})
	}

	if filter.AvailableOnly {
		query = query.Where(sq.Eq{"available": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	result := []menuitem.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *PostgresMenuRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("menu_items").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}

	return count, nil
}
