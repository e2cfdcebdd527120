package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ExhibitionStatus is the lifecycle state of an exhibition
type ExhibitionStatus string

// Exhibition lifecycle states, in creation-to-terminal order
const (
	StatusConcept      ExhibitionStatus = "concept"
	StatusPlanning     ExhibitionStatus = "planning"
	StatusPreparation  ExhibitionStatus = "preparation"
	StatusInstallation ExhibitionStatus = "installation"
	StatusOpen         ExhibitionStatus = "open"
	StatusClosing      ExhibitionStatus = "closing"
	StatusClosed       ExhibitionStatus = "closed"
	StatusArchived     ExhibitionStatus = "archived"
	StatusCanceled     ExhibitionStatus = "canceled"
)

// ExhibitionType classifies how an exhibition is staged
type ExhibitionType string

// Exhibition types
const (
	TypePermanent ExhibitionType = "permanent"
	TypeTemporary ExhibitionType = "temporary"
	TypeTraveling ExhibitionType = "traveling"
	TypeOnline    ExhibitionType = "online"
	TypePopUp     ExhibitionType = "pop_up"
)

// PlacementStatus is the state of an object within an exhibition
type PlacementStatus string

// Placement states
const (
	PlacementProposed      PlacementStatus = "proposed"
	PlacementConfirmed     PlacementStatus = "confirmed"
	PlacementOnLoanRequest PlacementStatus = "on_loan_request"
	PlacementInstalled     PlacementStatus = "installed"
	PlacementRemoved       PlacementStatus = "removed"
	PlacementReturned      PlacementStatus = "returned"
)

// Event states
const (
	EventScheduled = "scheduled"
	EventCanceled  = "canceled"
)

// Exhibition is the aggregate root for one curated display event
type Exhibition struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Title       string           `gorm:"not null" json:"title"`
	Subtitle    *string          `json:"subtitle"`
	Slug        string           `gorm:"not null;uniqueIndex" json:"slug"`
	Description *string          `json:"description"`
	Theme       *string          `json:"theme"`
	Type        ExhibitionType   `gorm:"column:exhibition_type;not null" json:"exhibition_type"`
	Status      ExhibitionStatus `gorm:"not null;index" json:"status"`

	PlanningDate *time.Time `json:"planning_date"`
	OpeningDate  *time.Time `gorm:"index" json:"opening_date"`
	ClosingDate  *time.Time `json:"closing_date"`

	// Venue and curator are kept as reference id plus freeform name so
	// external venues and guest curators need no internal row.
	VenueID     *uuid.UUID `gorm:"type:uuid" json:"venue_id"`
	VenueName   *string    `json:"venue_name"`
	CuratorID   *uuid.UUID `gorm:"type:uuid" json:"curator_id"`
	CuratorName *string    `json:"curator_name"`

	Budget *float64 `json:"budget"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"`

	Sections   []Section         `gorm:"foreignKey:ExhibitionID" json:"sections,omitempty"`
	Placements []ObjectPlacement `gorm:"foreignKey:ExhibitionID" json:"placements,omitempty"`
	Storylines []Storyline       `gorm:"foreignKey:ExhibitionID" json:"storylines,omitempty"`
	Events     []Event           `gorm:"foreignKey:ExhibitionID" json:"events,omitempty"`
	Checklists []Checklist       `gorm:"foreignKey:ExhibitionID" json:"checklists,omitempty"`
}

// Section is a physical or thematic grouping of placements within an exhibition
type Section struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ExhibitionID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   *string        `json:"description"`
	SequenceOrder int            `gorm:"not null" json:"sequence_order"`

	// Environmental targets are free-form numbers with no cross-validation
	TemperatureMin *float64 `json:"temperature_min"`
	TemperatureMax *float64 `json:"temperature_max"`
	HumidityMin    *float64 `json:"humidity_min"`
	HumidityMax    *float64 `json:"humidity_max"`
	LuxMax         *float64 `json:"lux_max"`

	Placements []ObjectPlacement `gorm:"foreignKey:SectionID" json:"placements,omitempty"`
}

// ObjectPlacement records one catalogued item being shown within one
// exhibition. The object itself lives in the catalogue subsystem and is
// referenced by id only.
type ObjectPlacement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
	ExhibitionID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	SectionID     *uuid.UUID      `gorm:"type:uuid;index" json:"section_id"`
	ObjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"object_id"`
	Status        PlacementStatus `gorm:"not null" json:"status"`
	SequenceOrder int             `gorm:"not null" json:"sequence_order"`

	Lighting          *string  `json:"lighting"`
	MountType         *string  `json:"mount_type"`
	SecurityLevel     *string  `json:"security_level"`
	InsuranceValue    *float64 `json:"insurance_value"`
	InstallationNotes *string  `json:"installation_notes"`

	InstalledBy *uuid.UUID `gorm:"type:uuid" json:"installed_by"`
	InstalledAt *time.Time `json:"installed_at"`
	RemovedBy   *uuid.UUID `gorm:"type:uuid" json:"removed_by"`
	RemovedAt   *time.Time `json:"removed_at"`
}

// Storyline is a curated narrative sequence through a subset of placements
type Storyline struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ExhibitionID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	Title         string         `gorm:"not null" json:"title"`
	Slug          string         `gorm:"not null;uniqueIndex" json:"slug"`
	Description   *string        `json:"description"`
	NarrativeType string         `json:"narrative_type"`
	// Informational only; multiple primaries are not prevented
	IsPrimary     bool `gorm:"not null;default:false" json:"is_primary"`
	SequenceOrder int  `gorm:"not null" json:"sequence_order"`

	Stops []StorylineStop `gorm:"foreignKey:StorylineID" json:"stops,omitempty"`
}

// StorylineStop is one stop on a storyline, optionally pointing at a
// placement. The same placement may appear in several stops or none.
type StorylineStop struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	StorylineID uuid.UUID      `gorm:"type:uuid;not null;index" json:"storyline_id"`
	PlacementID *uuid.UUID     `gorm:"type:uuid" json:"placement_id"`
	Title       string         `gorm:"not null" json:"title"`
	Content     *string        `json:"content"`
	// Printed-signage label, intentionally decoupled from sequence_order
	StopNumber    string `json:"stop_number"`
	SequenceOrder int    `gorm:"not null" json:"sequence_order"`
}

// Event is scheduled public programming attached to an exhibition
type Event struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	ExhibitionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  *string        `json:"description"`
	EventDate    time.Time      `gorm:"not null;index" json:"event_date"`
	StartTime    *string        `json:"start_time"`
	EndTime      *string        `json:"end_time"`
	Location     *string        `json:"location"`
	Capacity     *int           `json:"capacity"`
	Registration bool           `gorm:"not null;default:false" json:"registration"`
	Presenter    *string        `json:"presenter"`
	Status       string         `gorm:"not null;default:scheduled" json:"status"`
}

// Checklist is a task list attached to an exhibition, optionally
// instantiated from a template
type Checklist struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	ExhibitionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	TemplateID   *uuid.UUID     `gorm:"type:uuid" json:"template_id"`
	Name         string         `gorm:"not null" json:"name"`

	Items []ChecklistItem `gorm:"foreignKey:ChecklistID" json:"items,omitempty"`
}

// ChecklistItem is one task on a checklist
type ChecklistItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ChecklistID uuid.UUID      `gorm:"type:uuid;not null;index" json:"checklist_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	IsRequired  bool           `gorm:"not null;default:false" json:"is_required"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	CompletedBy *uuid.UUID     `gorm:"type:uuid" json:"completed_by"`
	CompletedAt *time.Time     `json:"completed_at"`
	Notes       *string        `json:"notes"`
}

// ChecklistTemplate is a reusable checklist definition. Instantiation
// copies the items; later template edits do not touch existing checklists.
type ChecklistTemplate struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `json:"description"`

	Items []ChecklistTemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

// ChecklistTemplateItem is one item on a checklist template
type ChecklistTemplateItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	TemplateID    uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	IsRequired    bool      `gorm:"not null;default:false" json:"is_required"`
	SequenceOrder int       `gorm:"not null" json:"sequence_order"`
}

// StatusHistory is the append-only ledger of lifecycle transitions.
// Rows are never updated or deleted.
type StatusHistory struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	ExhibitionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"exhibition_id"`
	FromStatus   *ExhibitionStatus `json:"from_status"`
	ToStatus     ExhibitionStatus  `gorm:"not null" json:"to_status"`
	ChangedBy    uuid.UUID         `gorm:"type:uuid;not null" json:"changed_by"`
	Reason       string            `json:"reason"`
}

// Loan mirrors the loan subsystem's table. The exhibition core only ever
// reads it when checking availability.
type Loan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ObjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"object_id"`
	Borrower   string     `json:"borrower"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// CatalogueItem mirrors the catalogue subsystem's record table, read-only
type CatalogueItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	Identifier   string    `json:"identifier"`
	Slug         string    `json:"slug"`
	ThumbnailURL *string   `json:"thumbnail_url"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	// Loan and CatalogueItem are owned by their subsystems and deliberately
	// excluded from migration here.
	err := db.AutoMigrate(
		&Exhibition{},
		&Section{},
		&ObjectPlacement{},
		&Storyline{},
		&StorylineStop{},
		&Event{},
		&Checklist{},
		&ChecklistItem{},
		&ChecklistTemplate{},
		&ChecklistTemplateItem{},
		&StatusHistory{},
	)

	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
