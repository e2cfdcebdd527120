package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/galleria/services/exhibition/internal/models"
)

// CatalogueReader resolves catalogued item ids to display data. The
// catalogue subsystem owns the table; this core never writes it.
type CatalogueReader interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogueItem, error)
}

// LoanReader lists open loans of an item overlapping a date window. The
// loan subsystem owns the table; this core never writes it.
type LoanReader interface {
	OpenLoansOverlapping(ctx context.Context, objectID uuid.UUID, start, end time.Time) ([]models.Loan, error)
}

type catalogueReader struct {
	readOnlyDB *gorm.DB
}

// NewCatalogueReader creates a catalogue reader over the shared store
func NewCatalogueReader(readOnlyDB *gorm.DB) CatalogueReader {
	return &catalogueReader{readOnlyDB: readOnlyDB}
}

func (r *catalogueReader) GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogueItem, error) {
	var item models.CatalogueItem
	err := r.readOnlyDB.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to resolve catalogue item")
	}
	return &item, nil
}

type loanReader struct {
	readOnlyDB *gorm.DB
}

// NewLoanReader creates a loan reader over the shared store
func NewLoanReader(readOnlyDB *gorm.DB) LoanReader {
	return &loanReader{readOnlyDB: readOnlyDB}
}

// OpenLoansOverlapping returns loans of the object that have not been
// returned and whose [start_date, end_date] overlaps [start, end]. A loan
// with no end date is treated as open-ended.
func (r *loanReader) OpenLoansOverlapping(ctx context.Context, objectID uuid.UUID, start, end time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.readOnlyDB.WithContext(ctx).
		Where("object_id = ?", objectID).
		Where("return_date IS NULL").
		Where("start_date <= ?", end).
		Where("end_date IS NULL OR end_date >= ?", start).
		Find(&loans).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list open loans")
	}
	return loans, nil
}
