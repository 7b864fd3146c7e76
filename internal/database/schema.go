package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on every start; statements must stay idempotent.
// email uses a binary collation so the unique key is case-sensitive.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		phone         VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      TINYINT(1)   NOT NULL DEFAULT 0,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
		id             CHAR(36)      NOT NULL PRIMARY KEY,
		user_id        CHAR(36)      NOT NULL,
		name           VARCHAR(255)  NOT NULL,
		image          VARCHAR(512)  NOT NULL,
		category       VARCHAR(32)   NOT NULL,
		description    TEXT          NOT NULL,
		price          DECIMAL(12,2) NOT NULL DEFAULT 0,
		count_in_stock INT           NOT NULL DEFAULT 0,
		specs          JSON          NOT NULL,
		created_at     DATETIME      NOT NULL,
		updated_at     DATETIME      NOT NULL,
		KEY idx_products_category (category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		user_id      CHAR(36)     NOT NULL,
		vehicle_type VARCHAR(64)  NOT NULL,
		service_type VARCHAR(64)  NOT NULL,
		date         DATETIME     NOT NULL,
		time_slot    VARCHAR(64)  NOT NULL,
		status       VARCHAR(16)  NOT NULL DEFAULT 'Pending',
		notes        TEXT         NOT NULL,
		created_at   DATETIME     NOT NULL,
		updated_at   DATETIME     NOT NULL,
		KEY idx_appointments_user_date (user_id, date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
