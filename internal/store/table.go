package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
)

// columnMapper derives column names from `db` struct tags, the same mapping
// sqlx uses to scan rows back, so the write and read paths can never
// disagree about a column name.
var columnMapper = reflectx.NewMapper("db")

// columnsOf lists the column names of a row struct in declaration order,
// with embedded row structs flattened.
func columnsOf[R any]() []string {
	tm := columnMapper.TypeMap(reflect.TypeOf(*new(R)))
	cols := make([]string, 0, len(tm.Index))
	for _, fi := range tm.Index {
		if fi.Embedded || len(fi.Children) > 0 {
			continue
		}
		if fi.Path == "" || strings.Contains(fi.Path, ".") {
			continue
		}
		if slices.Contains(cols, fi.Path) {
			continue
		}
		cols = append(cols, fi.Path)
	}
	return cols
}

// byCoursewareKey is the primary key of every by-courseware table. The id
// is the clustering component: reading in descending id order is reading
// newest-first, because ids are time-ordered.
var byCoursewareKey = []string{"deployment_id", "courseware_element_id", "student_id", "id"}

// writeOp is one idempotent statement of a denormalized write set.
type writeOp struct {
	query string
	arg   any
}

// table binds a row type to the pair of physical tables holding it: the
// canonical by-id table and the by-courseware table.
type table[R any] struct {
	canonical    string
	byCourseware string
	cols         []string
}

func newTable[R any](base string) table[R] {
	return table[R]{
		canonical:    base,
		byCourseware: base + "_by_courseware",
		cols:         columnsOf[R](),
	}
}

// upsert renders the idempotent insert for one physical table. A conflict
// on the table's primary key re-applies the same values, so replaying a
// write converges on the same stored state instead of failing.
func (t table[R]) upsert(name string, key []string, row R) writeOp {
	sets := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if slices.Contains(key, c) {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	action := "NOTHING"
	if len(sets) > 0 {
		action = "UPDATE SET " + strings.Join(sets, ", ")
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s) ON CONFLICT (%s) DO %s",
		name,
		strings.Join(t.cols, ", "),
		strings.Join(t.cols, ", :"),
		strings.Join(key, ", "),
		action,
	)
	return writeOp{query: query, arg: row}
}

// writes renders the full denormalized write set for one row.
func (t table[R]) writes(row R) []writeOp {
	return []writeOp{
		t.upsert(t.canonical, []string{"id"}, row),
		t.upsert(t.byCourseware, byCoursewareKey, row),
	}
}

// findByID reads one historical row from the canonical table. A missing
// row is a nil result, not an error.
func (t table[R]) findByID(ctx context.Context, db *sqlx.DB, id uuid.UUID) (*R, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?",
		strings.Join(t.cols, ", "), t.canonical)
	var row R
	if err := db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select %s by id: %w", t.canonical, err)
	}
	return &row, nil
}

// history reads rows for one (deployment, element, student) newest-first
// from the by-courseware table. limit <= 0 means unbounded.
func (t table[R]) history(ctx context.Context, db *sqlx.DB, deploymentID, elementID, studentID uuid.UUID, limit int) ([]R, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE deployment_id = ? AND courseware_element_id = ? AND student_id = ? ORDER BY id DESC",
		strings.Join(t.cols, ", "), t.byCourseware)
	args := []any{deploymentID.String(), elementID.String(), studentID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	var rows []R
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s history: %w", t.byCourseware, err)
	}
	return rows, nil
}

// latest reads the single most recent row for one (deployment, element,
// student), or nil when the student has never touched the element.
func (t table[R]) latest(ctx context.Context, db *sqlx.DB, deploymentID, elementID, studentID uuid.UUID) (*R, error) {
	rows, err := t.history(ctx, db, deploymentID, elementID, studentID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
