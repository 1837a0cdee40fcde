package notify

import "maps"

// SoundDefault selects the platform default sound explicitly
const SoundDefault = "default"

// Content describes one notification. Empty fields mean "use the platform
// default" and are never an error.
type Content struct {
	Title      string
	Body       string
	Subtitle   string
	Sound      string
	ThreadID   string
	CategoryID string

	// UserMetadata is returned unchanged with every Response for this notification
	UserMetadata map[string]string
}

// Builder assembles a Content value
type Builder struct {
	content Content
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Title sets the main line
func (b *Builder) Title(title string) *Builder {
	b.content.Title = title
	return b
}

// Body sets the message text
func (b *Builder) Body(body string) *Builder {
	b.content.Body = body
	return b
}

// Subtitle sets the secondary line
func (b *Builder) Subtitle(subtitle string) *Builder {
	b.content.Subtitle = subtitle
	return b
}

// Sound sets the sound name. Use SoundDefault for the platform default sound.
func (b *Builder) Sound(sound string) *Builder {
	b.content.Sound = sound
	return b
}

// ThreadID groups related notifications on platforms that support it
func (b *Builder) ThreadID(id string) *Builder {
	b.content.ThreadID = id
	return b
}

// CategoryID attaches the actions of a registered category
func (b *Builder) CategoryID(id string) *Builder {
	b.content.CategoryID = id
	return b
}

// UserMetadata replaces the metadata map
func (b *Builder) UserMetadata(metadata map[string]string) *Builder {
	b.content.UserMetadata = maps.Clone(metadata)
	return b
}

// Metadata sets a single metadata entry
func (b *Builder) Metadata(key, value string) *Builder {
	if b.content.UserMetadata == nil {
		b.content.UserMetadata = make(map[string]string)
	}
	b.content.UserMetadata[key] = value
	return b
}

// Build returns the assembled content. The builder can keep being used
// without affecting the returned value.
func (b *Builder) Build() Content {
	c := b.content
	c.UserMetadata = maps.Clone(b.content.UserMetadata)
	return c
}

// Metadata returns a copy of the user metadata, never nil
func (c Content) Metadata() map[string]string {
	if c.UserMetadata == nil {
		return map[string]string{}
	}
	return maps.Clone(c.UserMetadata)
}
