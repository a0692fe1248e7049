package postgres

// SQL for the detail fact store and the derived monthly summary.

const (
	// queryInsertDetail appends one fact row.
	// RETURNING retrieves the auto-generated detail_seq append cursor.
	queryInsertDetail = `
		INSERT INTO rental_detail (
			rental_id, rental_date, return_date,
			customer_id, customer_name, amount
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING detail_seq
	`

	// queryListDetails fetches all fact rows in append order.
	queryListDetails = `
		SELECT
			detail_seq, rental_id, rental_date, return_date,
			customer_id, customer_name, amount
		FROM rental_detail
		ORDER BY detail_seq ASC
	`

	queryCountDetails = `SELECT COUNT(*) FROM rental_detail`

	// queryUpsertBucket is the incremental maintenance step. A single
	// statement folds one detail row into its month bucket: create the
	// bucket on first sight of a month, otherwise add to the running
	// totals. ON CONFLICT makes the check-then-act atomic, so two
	// inserters racing on a new month cannot create duplicate buckets
	// or lose an update.
	queryUpsertBucket = `
		INSERT INTO rental_summary (month_key, total_revenue, total_transactions, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (month_key)
		DO UPDATE SET
			total_revenue      = rental_summary.total_revenue + EXCLUDED.total_revenue,
			total_transactions = rental_summary.total_transactions + 1,
			updated_at         = EXCLUDED.updated_at
	`

	// queryInsertBucket writes one rebuilt bucket. Only used inside the
	// ReplaceAllBuckets transaction, after queryDeleteBuckets.
	queryInsertBucket = `
		INSERT INTO rental_summary (month_key, total_revenue, total_transactions, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	queryDeleteBuckets = `DELETE FROM rental_summary`

	// queryListBuckets fetches the whole summary in month order.
	queryListBuckets = `
		SELECT month_key, total_revenue, total_transactions, updated_at
		FROM rental_summary
		ORDER BY month_key ASC
	`

	// queryTruncateAll clears both stores. Runs inside one transaction
	// so a reader never sees a detail set with a stale summary.
	queryTruncateDetail  = `DELETE FROM rental_detail`
	queryTruncateSummary = `DELETE FROM rental_summary`
)

// SQL for the upstream transactional feeds (read-only contract).

const (
	querySourceRentals = `
		SELECT rental_id, rental_date, return_date, customer_id
		FROM rental
		ORDER BY rental_date ASC
	`

	querySourcePayments = `
		SELECT rental_id, amount
		FROM payment
	`

	querySourceCustomers = `
		SELECT customer_id, first_name, last_name
		FROM customer
	`
)
