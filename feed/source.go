package feed

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mitlibraries/carbon/database"
	apperrors "github.com/mitlibraries/carbon/errors"
	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/pipeline"
)

// Source yields the records of a feed kind.
type Source interface {
	// Records runs the kind's query once and returns a single-pass cursor
	// over the matching rows. The caller must Close it.
	Records(ctx context.Context, kind Kind) (pipeline.Iterator[Record], error)
	// Check verifies the source can be reached.
	Check(ctx context.Context) error
}

// WarehouseSource reads records from the data warehouse.
type WarehouseSource struct {
	db  *database.DB
	log *logger.Logger
}

// NewWarehouseSource returns a Source over db.
func NewWarehouseSource(db *database.DB, log *logger.Logger) *WarehouseSource {
	if log == nil {
		log = logger.Nop()
	}
	return &WarehouseSource{db: db, log: log.WithComponent("source")}
}

// Check pings the warehouse.
func (s *WarehouseSource) Check(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if version, err := s.db.ServerVersion(ctx); err == nil && version != "" {
		s.log.Debug("warehouse reachable", logger.Fields("version", version))
	}
	return nil
}

// Records executes the query for kind.
func (s *WarehouseSource) Records(ctx context.Context, kind Kind) (pipeline.Iterator[Record], error) {
	sel, err := QueryFor(kind)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	q, err := sel.Build(s.db.WithContext(ctx))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, database.FromDatabase(err, "query")
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, database.FromDatabase(err, "query")
	}

	keys := make([]string, len(cols))
	for i, c := range cols {
		// Some drivers report qualified names for joined columns.
		keys[i] = c[strings.LastIndex(c, ".")+1:]
	}
	s.log.Debug("query started", logger.Fields(logger.FieldFeedType, string(kind), "columns", len(keys)))
	return &rowIter{rows: rows, keys: keys}, nil
}

// rowIter scans one row per Next. Rows are released on exhaustion, on
// error and on Close.
type rowIter struct {
	rows   *sql.Rows
	keys   []string
	closed bool
}

func (it *rowIter) Next(ctx context.Context) (Record, bool, error) {
	if it.closed {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		it.Close()
		return nil, false, database.FromDatabase(err, "scan")
	}
	if !it.rows.Next() {
		err := it.rows.Err()
		it.Close()
		if err != nil {
			return nil, false, database.FromDatabase(err, "scan")
		}
		return nil, false, nil
	}

	values := make([]any, len(it.keys))
	ptrs := make([]any, len(it.keys))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		it.Close()
		return nil, false, database.FromDatabase(err, "scan")
	}

	rec := make(Record, len(it.keys))
	for i, k := range it.keys {
		if b, ok := values[i].([]byte); ok {
			rec[k] = string(b)
			continue
		}
		rec[k] = values[i]
	}
	return rec, true, nil
}

func (it *rowIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rows.Close()
}
