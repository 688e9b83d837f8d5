package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// OrderIDPrefix is the plant code carried by every business order id.
const OrderIDPrefix = "ELAST"

// FormatOrderID builds the human-readable order id for a given day and
// sequence number: ELAST<YYYYMMDD><NN>, e.g. ELAST2026083107.
func FormatOrderID(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%02d", OrderIDPrefix, day.Format("20060102"), seq)
}

// nextOrderSequenceTx claims the next sequence number for the given day.
// The upsert increments and returns in one statement, so two orders
// created concurrently can never observe the same value. Counting order
// rows instead would race: two requests could both count N and both
// format N+1.
func nextOrderSequenceTx(tx *sql.Tx, day time.Time) (int, error) {
	var seq int
	err := tx.QueryRow(`
		INSERT INTO order_id_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_id_counters.counter + 1
		RETURNING counter
	`, day.Format("20060102")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to claim order sequence: %v", err)
	}
	return seq, nil
}
