package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/battlebuddy/internal/models"
)

// ErrInvalidItem is returned when an item cannot be stored as given
var ErrInvalidItem = errors.New("invalid item")

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			short_name TEXT,
			description TEXT,
			weight REAL DEFAULT 0,
			image_url TEXT,
			subtype TEXT,
			caliber TEXT,
			armor_class INTEGER,
			armor_material TEXT,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category, subtype)`,
		`CREATE INDEX IF NOT EXISTS idx_items_caliber ON items(category, caliber)`,
		`CREATE TABLE IF NOT EXISTS ammo_metadata (
			caliber TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			idx INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			message TEXT NOT NULL,
			contact TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Items ---

const itemUpsert = `
	INSERT OR REPLACE INTO items (id, category, name, short_name, description, weight, image_url,
		subtype, caliber, armor_class, armor_material, data)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// itemRow is the column form of an item
type itemRow struct {
	base     *models.BaseItem
	subtype  sql.NullString
	caliber  sql.NullString
	class    sql.NullInt64
	material sql.NullString
	data     []byte
}

func (r itemRow) args() []interface{} {
	b := r.base
	return []interface{}{b.ID, b.Category, b.Name, b.ShortName, b.Description, b.Weight, b.ImageURL,
		r.subtype, r.caliber, r.class, r.material, r.data}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// toRow validates item and flattens its grouping keys into columns
func toRow(item models.Item) (itemRow, error) {
	if item == nil {
		return itemRow{}, fmt.Errorf("%w: nil item", ErrInvalidItem)
	}

	var row itemRow
	switch it := item.(type) {
	case *models.Firearm:
		if !it.Type.Valid() {
			return itemRow{}, fmt.Errorf("%w: firearm type %q", ErrInvalidItem, it.Type)
		}
		it.Category = models.CategoryFirearm
		row.subtype = nullString(string(it.Type))
		row.caliber = nullString(it.Caliber)
	case *models.Armor:
		if !it.Type.Valid() {
			return itemRow{}, fmt.Errorf("%w: armor type %q", ErrInvalidItem, it.Type)
		}
		if !it.Class.Valid() {
			return itemRow{}, fmt.Errorf("%w: armor class %d", ErrInvalidItem, it.Class)
		}
		if !it.Material.Valid() {
			return itemRow{}, fmt.Errorf("%w: armor material %q", ErrInvalidItem, it.Material)
		}
		it.Category = models.CategoryArmor
		row.subtype = nullString(string(it.Type))
		row.class = sql.NullInt64{Int64: int64(it.Class), Valid: true}
		row.material = nullString(string(it.Material))
	case *models.Ammo:
		if it.Caliber == "" {
			return itemRow{}, fmt.Errorf("%w: ammo without caliber", ErrInvalidItem)
		}
		it.Category = models.CategoryAmmo
		row.caliber = nullString(it.Caliber)
	case *models.Medical:
		if !it.Type.Valid() {
			return itemRow{}, fmt.Errorf("%w: medical type %q", ErrInvalidItem, it.Type)
		}
		it.Category = models.CategoryMedical
		row.subtype = nullString(string(it.Type))
	case *models.Throwable:
		it.Category = models.CategoryThrowable
	case *models.MeleeWeapon:
		it.Category = models.CategoryMelee
	default:
		return itemRow{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidItem, item)
	}

	row.base = item.Base()
	if row.base.ID == "" || row.base.Name == "" {
		return itemRow{}, fmt.Errorf("%w: id and name are required", ErrInvalidItem)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return itemRow{}, fmt.Errorf("failed to encode item %s: %w", row.base.ID, err)
	}
	row.data = data
	return row, nil
}

// SaveItem creates or replaces an item
func (s *Store) SaveItem(ctx context.Context, item models.Item) error {
	row, err := toRow(item)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, itemUpsert, row.args()...)
	return err
}

// BulkSaveItems creates or replaces multiple items in a transaction
func (s *Store) BulkSaveItems(ctx context.Context, items []models.Item) error {
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		row, err := toRow(item)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, itemUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.args()...); err != nil {
			return fmt.Errorf("failed to save item %s: %w", row.base.ID, err)
		}
	}

	return tx.Commit()
}

// GetItem returns an item by ID
func (s *Store) GetItem(ctx context.Context, id string) (models.Item, error) {
	var category models.Category
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT category, data FROM items WHERE id = ?`, id).
		Scan(&category, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return models.DecodeItem(category, data)
}

// DeleteItemsByCategory removes every item of a category
func (s *Store) DeleteItemsByCategory(ctx context.Context, category models.Category) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE category = ?`, category)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchItems returns items of every category whose name or short name contains query
func (s *Store) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, data FROM items
		WHERE name LIKE ? ESCAPE '\' OR short_name LIKE ? ESCAPE '\'
		ORDER BY name, id
	`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var category models.Category
		var data []byte
		if err := rows.Scan(&category, &data); err != nil {
			return nil, err
		}
		item, err := models.DecodeItem(category, data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// queryItems decodes the data column of every matching row into T
func queryItems[T any](ctx context.Context, db *sql.DB, where string, args ...interface{}) ([]T, error) {
	rows, err := db.QueryContext(ctx, `SELECT data FROM items WHERE `+where+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Firearms returns all firearms
func (s *Store) Firearms(ctx context.Context) ([]models.Firearm, error) {
	return queryItems[models.Firearm](ctx, s.db, `category = ?`, models.CategoryFirearm)
}

// FirearmsOfType returns firearms of a single type
func (s *Store) FirearmsOfType(ctx context.Context, t models.FirearmType) ([]models.Firearm, error) {
	return queryItems[models.Firearm](ctx, s.db, `category = ? AND subtype = ?`, models.CategoryFirearm, t)
}

// FirearmsOfCaliber returns firearms chambered in caliber
func (s *Store) FirearmsOfCaliber(ctx context.Context, caliber string) ([]models.Firearm, error) {
	return queryItems[models.Firearm](ctx, s.db, `category = ? AND caliber = ?`, models.CategoryFirearm, caliber)
}

// Armor returns all armor pieces, head protection included
func (s *Store) Armor(ctx context.Context) ([]models.Armor, error) {
	return queryItems[models.Armor](ctx, s.db, `category = ?`, models.CategoryArmor)
}

// BodyArmor returns armor of type body
func (s *Store) BodyArmor(ctx context.Context) ([]models.Armor, error) {
	return queryItems[models.Armor](ctx, s.db, `category = ? AND subtype = ?`, models.CategoryArmor, models.ArmorBody)
}

// BodyArmorOfClass returns body armor of a single class
func (s *Store) BodyArmorOfClass(ctx context.Context, class models.ArmorClass) ([]models.Armor, error) {
	return queryItems[models.Armor](ctx, s.db, `category = ? AND subtype = ? AND armor_class = ?`,
		models.CategoryArmor, models.ArmorBody, int(class))
}

// BodyArmorWithMaterial returns body armor made of material
func (s *Store) BodyArmorWithMaterial(ctx context.Context, material models.ArmorMaterial) ([]models.Armor, error) {
	return queryItems[models.Armor](ctx, s.db, `category = ? AND subtype = ? AND armor_material = ?`,
		models.CategoryArmor, models.ArmorBody, material)
}

// Ammo returns all ammunition
func (s *Store) Ammo(ctx context.Context) ([]models.Ammo, error) {
	return queryItems[models.Ammo](ctx, s.db, `category = ?`, models.CategoryAmmo)
}

// AmmoOfCaliber returns ammunition of a single caliber
func (s *Store) AmmoOfCaliber(ctx context.Context, caliber string) ([]models.Ammo, error) {
	return queryItems[models.Ammo](ctx, s.db, `category = ? AND caliber = ?`, models.CategoryAmmo, caliber)
}

// Medical returns all medical items
func (s *Store) Medical(ctx context.Context) ([]models.Medical, error) {
	return queryItems[models.Medical](ctx, s.db, `category = ?`, models.CategoryMedical)
}

// Throwables returns all throwables
func (s *Store) Throwables(ctx context.Context) ([]models.Throwable, error) {
	return queryItems[models.Throwable](ctx, s.db, `category = ?`, models.CategoryThrowable)
}

// Melee returns all melee weapons
func (s *Store) Melee(ctx context.Context) ([]models.MeleeWeapon, error) {
	return queryItems[models.MeleeWeapon](ctx, s.db, `category = ?`, models.CategoryMelee)
}
