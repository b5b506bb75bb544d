package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"practicalprague/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

func textOrEmpty(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}

func timestamptzOrZero(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func textArrayOrEmpty(a pgtype.FlatArray[string]) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// imageOrNil decodes a jsonb image column; SQL NULL and JSON null both yield nil.
func imageOrNil(raw []byte) (*domain.Image, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var img domain.Image
	if err := json.Unmarshal(raw, &img); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.URL == "" {
		return nil, nil
	}
	return &img, nil
}
