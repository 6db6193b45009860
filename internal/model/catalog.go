package model

import "time"

// DefaultCatalogID names the built-in catalog served without a database lookup
const DefaultCatalogID = "default"

// Theme is one navigable step of a survey
type Theme struct {
	ID          string `json:"id" bson:"id" yaml:"id" validate:"required,idtoken"`
	Title       string `json:"title" bson:"title" yaml:"title" validate:"required"`
	Description string `json:"description" bson:"description" yaml:"description"`
	Completed   bool   `json:"completed" bson:"completed" yaml:"completed"` // Initial flag only; live flags are per session
}

// Catalog is a survey definition: ordered themes and their questions
type Catalog struct {
	ID        string     `json:"id" bson:"_id,omitempty" yaml:"id"`
	HostID    string     `json:"hostId" bson:"hostId" yaml:"-"`
	Title     string     `json:"title" bson:"title" yaml:"title"`
	Themes    []Theme    `json:"themes" bson:"themes" yaml:"themes" validate:"required,min=1,dive"`
	Questions []Question `json:"questions" bson:"questions" yaml:"questions" validate:"dive"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}
