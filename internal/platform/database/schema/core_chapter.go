package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table            string
	ID               string
	AudiobookID      string
	Position         string
	AudioPath        string
	Transcript       string
	ModerationStatus string
	ModerationNotes  string
	CreatedAt        string
	UpdatedAt        string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:            "core.chapter",
	ID:               "id",
	AudiobookID:      "audiobookid",
	Position:         "position",
	AudioPath:        "audiopath",
	Transcript:       "transcript",
	ModerationStatus: "moderationstatus",
	ModerationNotes:  "moderationnotes",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.AudiobookID, t.Position, t.AudioPath, t.Transcript,
		t.ModerationStatus, t.ModerationNotes, t.CreatedAt, t.UpdatedAt,
	}
}
