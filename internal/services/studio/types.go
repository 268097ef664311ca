package studio

// Participant is a speaker in a generated script
type Participant struct {
	ID      string   `json:"id" binding:"required"`
	Name    string   `json:"name" binding:"required"`
	Role    string   `json:"role" binding:"required"`
	VoiceID string   `json:"voiceId,omitempty"`
	Traits  []string `json:"traits,omitempty"`
}

// Request describes a script to generate
type Request struct {
	Topic        string        `json:"topic" binding:"required,min=3"`
	Format       string        `json:"format" binding:"required"`
	Tone         string        `json:"tone" binding:"required"`
	Participants []Participant `json:"participants" binding:"required,min=1,dive"`
	Context      string        `json:"context,omitempty"`
	Language     string        `json:"language,omitempty"`
	UserID       string        `json:"userId,omitempty"`
}

// FormatCategories groups the known formats for clients
var FormatCategories = map[string][]string{
	"conversation": {"dialogue", "phone-call", "interview", "debate", "negotiation"},
	"solo":         {"monologue", "voicemail", "presentation", "tutorial"},
	"broadcast":    {"podcast", "news", "announcement"},
}
