// Package database wraps the data warehouse connection in GORM.
//
// The warehouse schema is owned elsewhere; this package only opens a
// connection through a registered driver, streams query results and
// translates driver failures into SOURCE_UNAVAILABLE errors. The models in
// models.go mirror the warehouse tables so tests and local runs can stand
// up a compatible SQLite warehouse.
//
//	db, err := database.Open(ctx, cfg, log)
//	defer db.Close()
//	rows, err := query.Select{From: "AA_ARTICLE"}.Build(db.WithContext(ctx)).Rows()
package database
