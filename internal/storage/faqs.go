package storage

import (
	"context"
	"fmt"

	"github.com/corevia/corevia/internal/models"
)

// FAQsByPart retrieves all FAQ documents for one body part. No ordering
// beyond insertion order is guaranteed.
func (db *DB) FAQsByPart(ctx context.Context, part models.Part) ([]models.FAQ, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, part, question, answer, COALESCE(video_url, '')
		 FROM faqs
		 WHERE part = $1`,
		part)
	if err != nil {
		return nil, fmt.Errorf("querying faqs: %w", err)
	}
	defer rows.Close()

	var result []models.FAQ
	for rows.Next() {
		var f models.FAQ
		if err := rows.Scan(&f.ID, &f.Part, &f.Question, &f.Answer, &f.VideoURL); err != nil {
			return nil, fmt.Errorf("scanning faq: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// UpsertFAQ inserts or replaces one FAQ document. Used by the admin
// import endpoint to refresh guide content.
func (db *DB) UpsertFAQ(ctx context.Context, f models.FAQ) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO faqs (id, part, question, answer, video_url)
		 VALUES ($1,$2,$3,$4,NULLIF($5,''))
		 ON CONFLICT (id) DO UPDATE
		 SET part = EXCLUDED.part, question = EXCLUDED.question,
		     answer = EXCLUDED.answer, video_url = EXCLUDED.video_url`,
		f.ID, f.Part, f.Question, f.Answer, f.VideoURL)
	if err != nil {
		return fmt.Errorf("upserting faq: %w", err)
	}
	return nil
}
