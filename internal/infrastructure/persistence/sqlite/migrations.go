package sqlite

import "database/sql"

func RunMigrations(db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY,
			currency TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL,
			amount TEXT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS audit_entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			invoice_id INTEGER NOT NULL,
			from_status TEXT NOT NULL,
			to_status TEXT NOT NULL,
			at DATETIME NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
