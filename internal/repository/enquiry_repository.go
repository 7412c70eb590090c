package repository

import (
	"errors"
	"strings"
	"time"

	"movers_crm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by all repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

// StatusFilterActive selects the union of unresolved pipeline statuses.
// StatusFilterArchived selects Archived plus the legacy Dead value.
const (
	StatusFilterActive   = "active"
	StatusFilterArchived = models.StatusArchived
)

// Allow-listed sort keys. Anything else falls back to move_date.
var sortColumns = map[string]string{
	"move_date":  "move_date",
	"created_at": "created_at",
	"status":     "status",
	"name":       "full_name",
}

type EnquiryRepository interface {
	Create(enquiry *models.Enquiry) error
	GetByID(id uint) (*models.Enquiry, error)
	List(statusFilter, sortKey, sortDir string) ([]models.Enquiry, error)
	Update(enquiry *models.Enquiry) error
	UpdateStatus(id uint, status string) error
	CountByStatus() (map[string]int64, error)
	ArchiveStaleBefore(cutoff time.Time, archivedAt time.Time) (int64, error)
}

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(enquiry *models.Enquiry) error {
	return r.db.Create(enquiry).Error
}

func (r *enquiryRepository) GetByID(id uint) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.Preload("Truck").First(&enquiry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	enquiry.Status = models.NormalizeStatus(enquiry.Status)
	return &enquiry, nil
}

func (r *enquiryRepository) List(statusFilter, sortKey, sortDir string) ([]models.Enquiry, error) {
	query := r.db.Preload("Truck")

	switch statusFilter {
	case "", StatusFilterActive:
		query = query.Where("status IN ?", models.ActiveStatuses)
	case StatusFilterArchived:
		query = query.Where("status IN ?", []string{models.StatusArchived, models.StatusDead})
	default:
		query = query.Where("status = ?", statusFilter)
	}

	query = query.Order(orderClause(sortKey, sortDir))

	var enquiries []models.Enquiry
	if err := query.Find(&enquiries).Error; err != nil {
		return nil, err
	}
	for i := range enquiries {
		enquiries[i].Status = models.NormalizeStatus(enquiries[i].Status)
	}
	return enquiries, nil
}

// orderClause builds the ORDER BY for an allow-listed sort key. Unknown
// keys fall back to move_date ascending, unknown directions to ascending.
// move_date sorts NULLs after set dates and breaks ties newest-first.
func orderClause(sortKey, sortDir string) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortKey))]
	if !ok {
		column = "move_date"
		sortDir = "asc"
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortDir), "desc") {
		dir = "DESC"
	}
	if column == "move_date" {
		return "move_date IS NULL, move_date " + dir + ", created_at DESC"
	}
	return column + " " + dir
}

func (r *enquiryRepository) Update(enquiry *models.Enquiry) error {
	// Omit associations so saving an enquiry never writes through to the
	// preloaded truck row.
	return r.db.Omit(clause.Associations).Save(enquiry).Error
}

func (r *enquiryRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.Enquiry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *enquiryRepository) CountByStatus() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.Model(&models.Enquiry{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, row := range rows {
		counts[models.NormalizeStatus(row.Status)] += row.Count
	}
	return counts, nil
}

// ArchiveStaleBefore bulk-archives active enquiries whose move date falls
// before the cutoff. Per-row audit notes are deliberately skipped.
func (r *enquiryRepository) ArchiveStaleBefore(cutoff time.Time, archivedAt time.Time) (int64, error) {
	result := r.db.Model(&models.Enquiry{}).
		Where("status IN ?", models.ActiveStatuses).
		Where("move_date IS NOT NULL AND move_date < ?", cutoff).
		Updates(map[string]interface{}{
			"status":     models.StatusArchived,
			"updated_at": archivedAt,
		})
	return result.RowsAffected, result.Error
}
