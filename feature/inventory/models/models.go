package models

import "time"

// RawEntity is one immutable snapshot of an external object. The table is an
// append-only log: corrections are new rows, and the newest row per
// (entity_type, source_system, external_id) by ingested_at is authoritative.
type RawEntity struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType          string     `gorm:"size:50;not null;index:idx_raw_entities_latest,priority:1" json:"entity_type"`
	SourceSystem        string     `gorm:"size:100;not null;index:idx_raw_entities_latest,priority:2" json:"source_system"`
	ExternalID          string     `gorm:"size:128;not null;index:idx_raw_entities_latest,priority:3" json:"external_id"`
	Payload             string     `gorm:"type:longtext" json:"payload"`
	ContentHashBasic    string     `gorm:"size:64" json:"content_hash_basic"`
	ContentHashEnriched string     `gorm:"size:64" json:"content_hash_enriched"`
	RunID               string     `gorm:"size:36;index" json:"run_id"`
	IngestedAt          time.Time  `gorm:"not null;index:idx_raw_entities_latest,priority:4" json:"ingested_at"`
	EnrichedAt          *time.Time `json:"enriched_at"`
}

// TableName returns the table name for the RawEntity model.
func (RawEntity) TableName() string {
	return "raw_entities"
}

// IngestionRun is the persisted lifecycle row for one synchronization pass.
// It has exactly one writer per run and is terminal once completed_at is set.
type IngestionRun struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID            string     `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	SourceSystem     string     `gorm:"size:100;not null" json:"source_system"`
	EntityType       string     `gorm:"size:50;not null;index" json:"entity_type"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	Status           string     `gorm:"size:30;not null" json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	RecordsCreated   int        `json:"records_created"`
	RecordsUpdated   int        `json:"records_updated"`
	ErrorMessage     *string    `gorm:"type:text" json:"error_message"`
	Metadata         string     `gorm:"type:text" json:"metadata"`
}

// TableName returns the table name for the IngestionRun model.
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}

// Lab is one entry of the canonical identity registry: a lab key and the
// owner identity expected for it. Populated by spreadsheet import.
type Lab struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LabKey      string    `gorm:"size:100;uniqueIndex;not null" json:"lab_key"`
	OwnerEmail  string    `gorm:"size:255" json:"owner_email"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Lab model.
func (Lab) TableName() string {
	return "labs"
}
