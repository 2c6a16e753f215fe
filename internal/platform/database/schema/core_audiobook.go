package schema

// CoreAudiobookTable represents the 'core.audiobook' table
type CoreAudiobookTable struct {
	Table             string
	ID                string
	Title             string
	Language          string
	ModerationStatus  string
	PublicationStatus string
	ModerationNotes   string
	CreatedAt         string
	UpdatedAt         string
}

// CoreAudiobook is the schema definition for core.audiobook
var CoreAudiobook = CoreAudiobookTable{
	Table:             "core.audiobook",
	ID:                "id",
	Title:             "title",
	Language:          "language",
	ModerationStatus:  "moderationstatus",
	PublicationStatus: "publicationstatus",
	ModerationNotes:   "moderationnotes",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

func (t CoreAudiobookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Language, t.ModerationStatus, t.PublicationStatus,
		t.ModerationNotes, t.CreatedAt, t.UpdatedAt,
	}
}
