package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/pkg/database"
)

// DraftRecordRow is the persisted form of one historical draft. Draft
// order and picks are stored as JSON documents; the engine only ever
// reads them back as immutable records.
type DraftRecordRow struct {
	ID         uint           `gorm:"primaryKey"`
	DraftID    string         `gorm:"uniqueIndex;not null"`
	League     string         `gorm:"index:idx_league_year;not null"`
	Year       int            `gorm:"index:idx_league_year;not null"`
	TeamCount  int            `gorm:"not null"`
	RoundCount int            `gorm:"not null"`
	DraftType  string         `gorm:"not null;default:snake"`
	DraftOrder datatypes.JSON `gorm:"not null"`
	Picks      datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DraftRecordRow) TableName() string {
	return "draft_records"
}

// RecordStore loads and persists historical draft records.
type RecordStore struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewRecordStore creates a record store.
func NewRecordStore(db *database.DB, logger *logrus.Logger) *RecordStore {
	return &RecordStore{db: db, logger: logger}
}

// Migrate creates or updates the draft_records table.
func (s *RecordStore) Migrate() error {
	if err := s.db.AutoMigrate(&DraftRecordRow{}); err != nil {
		return fmt.Errorf("failed to migrate draft records: %w", err)
	}
	return nil
}

// Save upserts a record keyed by draft id.
func (s *RecordStore) Save(record *models.DraftRecord) error {
	row, err := toRow(record)
	if err != nil {
		return err
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_id"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save draft record %s: %w", record.DraftID, err)
	}
	return nil
}

// LoadLeague returns all records for a league ordered by year.
func (s *RecordStore) LoadLeague(league string) ([]*models.DraftRecord, error) {
	var rows []DraftRecordRow
	if err := s.db.Where("league = ?", league).Order("year asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load records for league %s: %w", league, err)
	}
	return s.toRecords(rows)
}

// LoadAll returns every stored record ordered by year.
func (s *RecordStore) LoadAll() ([]*models.DraftRecord, error) {
	var rows []DraftRecordRow
	if err := s.db.Order("year asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load draft records: %w", err)
	}
	return s.toRecords(rows)
}

// RecordsForMember filters records down to those the member drafted in.
func RecordsForMember(records []*models.DraftRecord, memberID string) []*models.DraftRecord {
	filtered := make([]*models.DraftRecord, 0, len(records))
	for _, record := range records {
		if _, ok := record.DraftOrder[memberID]; ok {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Members returns the distinct member ids across records, sorted.
func Members(records []*models.DraftRecord) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		for memberID := range record.DraftOrder {
			seen[memberID] = true
		}
	}
	members := make([]string, 0, len(seen))
	for memberID := range seen {
		members = append(members, memberID)
	}
	sort.Strings(members)
	return members
}

func (s *RecordStore) toRecords(rows []DraftRecordRow) ([]*models.DraftRecord, error) {
	records := make([]*models.DraftRecord, 0, len(rows))
	for i := range rows {
		record, err := toRecord(&rows[i])
		if err != nil {
			// A corrupt row should not make all history unreadable.
			if s.logger != nil {
				s.logger.WithField("draft_id", rows[i].DraftID).Warnf("Skipping unreadable draft record: %v", err)
			}
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func toRow(record *models.DraftRecord) (*DraftRecordRow, error) {
	order, err := json.Marshal(record.DraftOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft order: %w", err)
	}
	picks, err := json.Marshal(record.Picks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal picks: %w", err)
	}
	return &DraftRecordRow{
		DraftID:    record.DraftID,
		League:     record.League,
		Year:       record.Year,
		TeamCount:  record.Settings.TeamCount,
		RoundCount: record.Settings.RoundCount,
		DraftType:  string(record.Settings.DraftType),
		DraftOrder: datatypes.JSON(order),
		Picks:      datatypes.JSON(picks),
	}, nil
}

func toRecord(row *DraftRecordRow) (*models.DraftRecord, error) {
	record := &models.DraftRecord{
		DraftID: row.DraftID,
		League:  row.League,
		Year:    row.Year,
		Settings: models.DraftSettings{
			TeamCount:  row.TeamCount,
			RoundCount: row.RoundCount,
			DraftType:  models.DraftType(row.DraftType),
		},
		LoadedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal(row.DraftOrder, &record.DraftOrder); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft order: %w", err)
	}
	if err := json.Unmarshal(row.Picks, &record.Picks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal picks: %w", err)
	}
	sort.Slice(record.Picks, func(i, j int) bool {
		return record.Picks[i].PickNumber < record.Picks[j].PickNumber
	})
	return record, nil
}
