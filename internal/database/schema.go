package database

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent so the server can bootstrap a fresh
// database on startup.  The overlap invariant on reservations is enforced
// by the repository's locked transaction, not by a table constraint (MySQL
// has no range-exclusion constraints), so the composite index on
// (venue_id, date) exists to keep the per-day overlap scan cheap.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		type ENUM('sport','conference','party') NOT NULL,
		capacity INT UNSIGNED NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		location VARCHAR(255) NOT NULL,
		amenities JSON NULL,
		description TEXT NULL,
		image_url VARCHAR(512) NULL,
		status ENUM('active','maintenance','inactive') NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		venue_id BIGINT UNSIGNED NOT NULL,
		date DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		total_cents INT UNSIGNED NOT NULL,
		status ENUM('pending','confirmed','cancelled') NOT NULL DEFAULT 'pending',
		notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_reservations_venue_date (venue_id, date),
		KEY idx_reservations_user (user_id),
		CONSTRAINT fk_reservations_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		amount_cents INT UNSIGNED NOT NULL,
		payment_status ENUM('unpaid','paid','refunded') NOT NULL DEFAULT 'unpaid',
		payment_method VARCHAR(64) NULL,
		invoice_number VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_invoices_number (invoice_number),
		UNIQUE KEY uq_invoices_reservation (reservation_id),
		CONSTRAINT fk_invoices_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the application tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
