package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/minsukim/jikimi/internal/decision"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// LabelClass partitions model labels into ground/safe and danger.
type LabelClass string

const (
	// LabelClassGround marks a label token as ground/safe.
	LabelClassGround LabelClass = "ground"
	// LabelClassDanger marks a label token as a danger class.
	LabelClassDanger LabelClass = "danger"
)

// Label is one row of the canonical classification table.
type Label struct {
	ID        string
	Name      string
	Class     LabelClass
	CreatedAt time.Time
}

// LabelRepository provides CRUD operations for the label catalog.
type LabelRepository struct {
	db *sql.DB
}

// Labels returns the label repository for this store.
func (s *Store) Labels() *LabelRepository {
	return &LabelRepository{db: s.db}
}

// seedLabels inserts the default ground tokens on a fresh database. A
// database that already has any label rows is left untouched so deletions
// stick.
func (s *Store) seedLabels() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM labels`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	repo := s.Labels()
	for _, token := range decision.DefaultGroundTokens {
		label := &Label{
			ID:    uuid.NewString(),
			Name:  token,
			Class: LabelClassGround,
		}
		if err := repo.Create(label); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new label into the catalog.
func (r *LabelRepository) Create(l *Label) error {
	l.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO labels (id, name, class, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Name, string(l.Class), l.CreatedAt,
	)
	return err
}

// GetByID retrieves a label by its ID.
func (r *LabelRepository) GetByID(id string) (*Label, error) {
	l := &Label{}
	var class string

	err := r.db.QueryRow(
		`SELECT id, name, class, created_at FROM labels WHERE id = ?`,
		id,
	).Scan(&l.ID, &l.Name, &class, &l.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	l.Class = LabelClass(class)
	return l, nil
}

// List returns all labels ordered by name.
func (r *LabelRepository) List() ([]*Label, error) {
	rows, err := r.db.Query(
		`SELECT id, name, class, created_at FROM labels ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*Label
	for rows.Next() {
		l := &Label{}
		var class string
		if err := rows.Scan(&l.ID, &l.Name, &class, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Class = LabelClass(class)
		labels = append(labels, l)
	}

	return labels, rows.Err()
}

// Update changes a label's name and class.
func (r *LabelRepository) Update(l *Label) error {
	result, err := r.db.Exec(
		`UPDATE labels SET name = ?, class = ? WHERE id = ?`,
		l.Name, string(l.Class), l.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a label by its ID.
func (r *LabelRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GroundTokens returns the names of all ground-class labels, the token set
// the decision catalog is built from.
func (r *LabelRepository) GroundTokens() ([]string, error) {
	rows, err := r.db.Query(
		`SELECT name FROM labels WHERE class = ? ORDER BY name`,
		string(LabelClassGround),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tokens = append(tokens, name)
	}

	return tokens, rows.Err()
}
