package schema

// ModerationBannedKeywordTable represents the 'moderation.bannedkeyword' table
type ModerationBannedKeywordTable struct {
	Table        string
	ID           string
	Term         string
	LanguageCode string
	CreatedAt    string
}

// ModerationBannedKeyword is the schema definition for moderation.bannedkeyword
var ModerationBannedKeyword = ModerationBannedKeywordTable{
	Table:        "moderation.bannedkeyword",
	ID:           "id",
	Term:         "term",
	LanguageCode: "languagecode",
	CreatedAt:    "createdat",
}

func (t ModerationBannedKeywordTable) Columns() []string {
	return []string{t.ID, t.Term, t.LanguageCode, t.CreatedAt}
}
