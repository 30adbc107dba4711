package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a free-form JSON document column.
type JSONB map[string]interface{}

// AdminActivityLog records one admin back-office mutation for the activity
// trail shown in the admin settings screens.
type AdminActivityLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     *uuid.UUID `json:"user_id" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType string     `json:"entity_type" db:"entity_type"`
	EntityID   string     `json:"entity_id" db:"entity_id"`
	Detail     JSONB      `json:"detail" db:"detail"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for admin activity logs
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionArchive = "ARCHIVE"
	ActionRestore = "RESTORE"
)

// AdminActivityFilters represents filters for querying the activity trail
type AdminActivityFilters struct {
	UserID     *uuid.UUID `json:"user_id"`
	Action     *string    `json:"action"`
	EntityType *string    `json:"entity_type"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}
