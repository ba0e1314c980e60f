package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sequenceSource maps a document series to the table and column that holds
// its issued numbers. The next number is derived from the current maximum,
// so each series stays gapless under normal operation.
type sequenceSource struct {
	table  string
	column string
}

var sequenceSources = map[inventory.DocumentKind]sequenceSource{
	inventory.DocumentKindTransaction: {table: "stock_transactions", column: "transaction_number"},
	inventory.DocumentKindBatch:       {table: "purchase_batches", column: "batch_number"},
	inventory.DocumentKindPurchase:    {table: "purchase_batches", column: "purchase_number"},
	inventory.DocumentKindRequest:     {table: "allocation_requests", column: "request_number"},
}

// GormSequenceGenerator issues sequential document numbers of the form
// KIND-000042 by scanning the series' own table for the current maximum.
// It must run inside the same transaction as the insert that uses the
// number, otherwise two writers can be handed the same value.
type GormSequenceGenerator struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB, logger *zap.Logger) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db, logger: logger}
}

// Next returns the next number in the series. A failed or unparseable
// lookup never blocks a new document: the series degrades to a timestamp
// suffix and the degradation is logged.
func (g *GormSequenceGenerator) Next(ctx context.Context, kind inventory.DocumentKind) (string, error) {
	source, ok := sequenceSources[kind]
	if !ok {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}
	prefix := string(kind) + "-"

	var maxNumber string
	err := g.db.WithContext(ctx).
		Table(source.table).
		Select(source.column).
		Where(source.column+" LIKE ?", prefix+"%").
		Order(source.column + " DESC").
		Limit(1).
		Pluck(source.column, &maxNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		g.logger.Warn("sequence lookup failed, issuing timestamp number",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return timestampNumber(prefix), nil
	}

	if maxNumber == "" {
		return fmt.Sprintf("%s%06d", prefix, 1), nil
	}

	seq, parseErr := parseSequenceSuffix(maxNumber)
	if parseErr != nil {
		// an unparseable maximum (hand-edited or legacy data) switches
		// the series to a timestamp suffix that still sorts after it
		g.logger.Warn("sequence maximum unparseable, issuing timestamp number",
			zap.String("kind", string(kind)),
			zap.String("max_number", maxNumber),
		)
		return timestampNumber(prefix), nil
	}
	return fmt.Sprintf("%s%06d", prefix, seq+1), nil
}

func timestampNumber(prefix string) string {
	return prefix + time.Now().Format("20060102150405")
}

// parseSequenceSuffix extracts the numeric tail of a document number
func parseSequenceSuffix(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("no numeric suffix in %q", number)
	}
	var seq int
	if _, err := fmt.Sscanf(number[idx+1:], "%d", &seq); err != nil {
		return 0, fmt.Errorf("no numeric suffix in %q", number)
	}
	if seq < 0 {
		return 0, fmt.Errorf("negative suffix in %q", number)
	}
	return seq, nil
}

// Ensure GormSequenceGenerator implements SequenceGenerator
var _ inventory.SequenceGenerator = (*GormSequenceGenerator)(nil)
