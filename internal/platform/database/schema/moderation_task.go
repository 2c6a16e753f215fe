package schema

// ModerationTaskTable represents the 'moderation.task' table
type ModerationTaskTable struct {
	Table       string
	ID          string
	Kind        string
	Payload     string
	Status      string
	Attempts    string
	MaxAttempts string
	RunAt       string
	LastError   string
	CreatedAt   string
	UpdatedAt   string
}

// ModerationTask is the schema definition for moderation.task
var ModerationTask = ModerationTaskTable{
	Table:       "moderation.task",
	ID:          "id",
	Kind:        "kind",
	Payload:     "payload",
	Status:      "status",
	Attempts:    "attempts",
	MaxAttempts: "maxattempts",
	RunAt:       "runat",
	LastError:   "lasterror",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t ModerationTaskTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.Payload, t.Status, t.Attempts, t.MaxAttempts,
		t.RunAt, t.LastError, t.CreatedAt, t.UpdatedAt,
	}
}
