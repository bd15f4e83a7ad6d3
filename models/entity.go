package models

// EntityType tags the kind of domain object being synchronized.
// The set is open: unknown types fall back to the default merge rule.
type EntityType string

const (
	EntityReport     EntityType = "report"
	EntityProject    EntityType = "project"
	EntityTask       EntityType = "task"
	EntityRisk       EntityType = "risk"
	EntityIncident   EntityType = "incident"
	EntityEvidence   EntityType = "evidence"
	EntityWizardStep EntityType = "wizard_step"
)
