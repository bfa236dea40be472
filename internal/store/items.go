package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/erazemk/ewaste/internal/catalog"
	"github.com/erazemk/ewaste/internal/model"
)

const itemColumns = `id, title, description, image, claimed, created_at, claimed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Claimed, &item.CreatedAt, &item.ClaimedAt)
	return item, err
}

// Get returns an item by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// ListAll returns every item, most recent post first.
func (s *Store) ListAll(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Query returns the items whose title or description contains term, ignoring
// case, in ListAll order. An empty term returns everything.
func (s *Store) Query(ctx context.Context, term string) ([]model.Item, error) {
	items, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return items, nil
	}

	matched := items[:0]
	for _, item := range items {
		if item.Matches(term) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Post adds a new unclaimed item in front of the collection. Blank titles or
// descriptions are rejected with model.ErrInvalidSubmission and nothing changes.
func (s *Store) Post(ctx context.Context, title, description, image string) (*model.Item, error) {
	title, description, err := model.ValidateSubmission(title, description)
	if err != nil {
		return nil, err
	}
	image = strings.TrimSpace(image)
	if image == "" {
		image = s.defaultImage
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO items (title, description, image) VALUES (?, ?, ?)`,
		title, description, image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d vanished after insert", id)
	}
	s.notify(Change{Kind: ChangePosted, Item: *item})
	return item, nil
}

// Claim flips an item's claimed flag and records who claimed it. The flag is a
// one-way latch: claiming a claimed item returns model.ErrAlreadyClaimed and
// leaves it untouched. Unknown IDs return model.ErrNotFound.
func (s *Store) Claim(ctx context.Context, id int64) (*model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET claimed = 1, claimed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND claimed = 0`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		var claimed bool
		err := tx.QueryRowContext(ctx, `SELECT claimed FROM items WHERE id = ?`, id).Scan(&claimed)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("checking item: %w", err)
		}
		return nil, model.ErrAlreadyClaimed
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO claims (item_id, claimant) VALUES (?, ?)`,
		id, s.profile.DisplayName,
	)
	if err != nil {
		return nil, fmt.Errorf("recording claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrNotFound
	}
	s.notify(Change{Kind: ChangeClaimed, Item: *item})
	return item, nil
}

// Seed inserts catalog entries so that ListAll returns them in catalog order.
func (s *Store) Seed(ctx context.Context, entries []catalog.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		title, description, err := model.ValidateSubmission(e.Title, e.Description)
		if err != nil {
			return fmt.Errorf("seeding %q: %w", e.Title, err)
		}
		image := strings.TrimSpace(e.Image)
		if image == "" {
			image = s.defaultImage
		}

		query := `INSERT INTO items (title, description, image) VALUES (?, ?, ?)`
		if e.Claimed {
			query = `INSERT INTO items (title, description, image, claimed, claimed_at)
			         VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)`
		}
		if _, err := tx.ExecContext(ctx, query, title, description, image); err != nil {
			return fmt.Errorf("seeding %q: %w", title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}

// Suggest returns the title of the item closest to term by edit distance,
// comparing against whole titles and their individual words. It returns ""
// when nothing is close enough to be a plausible typo.
func (s *Store) Suggest(ctx context.Context, term string) (string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return "", nil
	}

	items, err := s.ListAll(ctx)
	if err != nil {
		return "", err
	}

	best, bestDist := "", -1
	for _, item := range items {
		title := strings.ToLower(item.Title)
		candidates := append([]string{title}, strings.Fields(title)...)
		for _, c := range candidates {
			d := levenshtein.ComputeDistance(term, c)
			if bestDist < 0 || d < bestDist {
				best, bestDist = item.Title, d
			}
		}
	}

	if bestDist < 0 || bestDist > max(1, utf8.RuneCountInString(term)/3) {
		return "", nil
	}
	return best, nil
}

// Stats returns the number of items and how many of them are claimed.
func (s *Store) Stats(ctx context.Context) (total, claimed int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(claimed), 0) FROM items`,
	).Scan(&total, &claimed)
	if err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	return total, claimed, nil
}
