package discord

import (
	"time"

	"hookrelay/internal/platform/models"
)

// Embed color codes, one constant per notification category.
const (
	colorGreen   = 0x2ECC71
	colorBlue    = 0x3498DB
	colorPurple  = 0x9B59B6
	colorRed     = 0xE74C3C
	colorOrange  = 0xE67E22
	colorBlurple = 0x5865F2
	colorGrey    = 0x95A5A6
)

var colorTable = map[models.ColorCategory]int{
	models.ColorPush:     colorGreen,
	models.ColorPROpened: colorBlue,
	models.ColorPRMerged: colorPurple,
	models.ColorPRClosed: colorRed,
	models.ColorRelease:  colorOrange,
	models.ColorPing:     colorBlurple,
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

// Message is the Discord webhook execution body.
type Message struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []Embed `json:"embeds"`
}

// BuildMessage formats a normalized notification as a single-embed
// Discord webhook message. Pure transformation, no I/O.
func BuildMessage(n *models.Notification, username, avatarURL string) *Message {
	color, ok := colorTable[n.Color]
	if !ok {
		color = colorGrey
	}

	var fields []EmbedField
	for _, f := range n.Fields {
		fields = append(fields, EmbedField{Name: f.Name, Value: f.Value})
	}

	embed := Embed{
		Title:       n.Title,
		Description: n.Description,
		URL:         n.LinkURL,
		Color:       color,
		Fields:      fields,
		Timestamp:   n.Timestamp.UTC().Format(time.RFC3339),
	}
	if n.Footer != "" {
		embed.Footer = &EmbedFooter{Text: n.Footer}
	}

	return &Message{
		Username:  username,
		AvatarURL: avatarURL,
		Embeds:    []Embed{embed},
	}
}
