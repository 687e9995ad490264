package db_models

// PlannerState is one persisted field of a planning session, stored verbatim
// as JSON text under (SessionID, Key).
type PlannerState struct {
	BaseModel
	SessionID string `gorm:"type:uuid;not null;uniqueIndex:idx_planner_states_session_key,priority:1"`
	Key       string `gorm:"size:64;not null;uniqueIndex:idx_planner_states_session_key,priority:2"`
	Value     string `gorm:"type:text;not null"`
}

func (PlannerState) TableName() string {
	return "planner_states"
}
