package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PersistentTTL is Layer-2's time-to-live, stored as an absolute expiry.
const PersistentTTL = 120 * time.Second

// persistentLayer is the Layer-2 key-value store, backed by the
// route_cache table (spec.md §6 "Persistent cache layout"). It follows the
// teacher's repository shape: a struct wrapping *sql.DB and a logger, one
// method per query.
type persistentLayer struct {
	db  *sql.DB
	log zerolog.Logger
}

func newPersistentLayer(db *sql.DB, log zerolog.Logger) *persistentLayer {
	return &persistentLayer{db: db, log: log.With().Str("component", "route_cache_persistent").Logger()}
}

func (p *persistentLayer) get(key string, currentVersion uint64) (Entry, bool) {
	row := p.db.QueryRow(
		`SELECT routes_json, expires_at FROM route_cache WHERE cache_key = ?`, key,
	)

	var payload []byte
	var expiresAt time.Time
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if err != sql.ErrNoRows {
			p.log.Warn().Err(err).Str("key", key).Msg("persistent cache lookup failed")
		}
		return Entry{}, false
	}

	if time.Now().After(expiresAt) {
		_, _ = p.db.Exec(`DELETE FROM route_cache WHERE cache_key = ?`, key)
		return Entry{}, false
	}

	return Entry{Payload: payload, GraphVersion: currentVersion, ExpiresAt: expiresAt}, true
}

func (p *persistentLayer) set(key, sourceAsset, destAsset, sourceAmount string, e Entry) error {
	_, err := p.db.Exec(
		`INSERT INTO route_cache (cache_key, source_asset, dest_asset, source_amount, routes_json, computed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   routes_json = excluded.routes_json,
		   computed_at = excluded.computed_at,
		   expires_at  = excluded.expires_at`,
		key, sourceAsset, destAsset, sourceAmount, e.Payload, time.Now(), e.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("write persistent cache entry: %w", err)
	}
	return nil
}

func (p *persistentLayer) clear() error {
	if _, err := p.db.Exec(`DELETE FROM route_cache`); err != nil {
		return fmt.Errorf("clear persistent cache: %w", err)
	}
	return nil
}

// purgeExpired deletes every row whose expiry has passed, run periodically
// by a background task (§4.6 "A background task periodically deletes
// expired persistent entries").
func (p *persistentLayer) purgeExpired() (int64, error) {
	res, err := p.db.Exec(`DELETE FROM route_cache WHERE expires_at < ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("purge expired cache entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
