package toast

import (
	"encoding/xml"
	"fmt"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

const (
	// DefaultAudioSource is the sound used when the platform default is requested
	DefaultAudioSource = "ms-winsoundevent:Notification.SMS"
	// TextInputID is the input id every text-input action refers to
	TextInputID = "textBox"

	textTitle    = 1
	textSubtitle = 2
	textBody     = 3
)

// Document is the toast XML schema subset this package produces
type Document struct {
	XMLName        xml.Name `xml:"toast"`
	Duration       string   `xml:"duration,attr"`
	Launch         string   `xml:"launch,attr,omitempty"`
	ActivationType string   `xml:"activationType,attr,omitempty"`
	Visual         Visual   `xml:"visual"`
	Audio          *Audio   `xml:"audio,omitempty"`
	Actions        *Actions `xml:"actions,omitempty"`
}

// Visual holds the single generic binding
type Visual struct {
	Binding Binding `xml:"binding"`
}

// Binding holds the text lines
type Binding struct {
	Template string `xml:"template,attr"`
	Texts    []Text `xml:"text"`
}

// Text is one text line; ids 1, 2, 3 are title, subtitle, body
type Text struct {
	ID    int    `xml:"id,attr"`
	Value string `xml:",chardata"`
}

// Audio selects a sound or silence
type Audio struct {
	Src    string `xml:"src,attr,omitempty"`
	Silent string `xml:"silent,attr,omitempty"`
}

// Actions holds inputs and buttons; inputs come first
type Actions struct {
	Inputs  []Input  `xml:"input"`
	Buttons []Button `xml:"action"`
}

// Input is a text box
type Input struct {
	ID          string `xml:"id,attr"`
	Type        string `xml:"type,attr"`
	Placeholder string `xml:"placeHolderContent,attr,omitempty"`
}

// Button is an action button
type Button struct {
	Content        string `xml:"content,attr"`
	Arguments      string `xml:"arguments,attr"`
	HintInputID    string `xml:"hint-inputId,attr,omitempty"`
	ActivationType string `xml:"activationType,attr"`
}

// NewDocument maps content to a toast document. launch is the callback URI
// for a body tap, empty when no protocol is configured.
func NewDocument(content notify.Content, launch string, category *notify.Category, policy notify.SoundPolicy) Document {
	doc := Document{
		Duration: "short",
		Visual: Visual{Binding: Binding{
			Template: "ToastGeneric",
			Texts: []Text{
				{ID: textTitle, Value: content.Title},
				{ID: textSubtitle, Value: content.Subtitle},
				{ID: textBody, Value: content.Body},
			},
		}},
		Audio: audioFor(content.Sound, policy),
	}
	if launch != "" {
		doc.Launch = launch
		doc.ActivationType = "protocol"
	}
	if category != nil && len(category.Actions) > 0 {
		doc.Actions = actionsFor(*category)
	}
	return doc
}

func audioFor(sound string, policy notify.SoundPolicy) *Audio {
	switch {
	case sound == notify.SoundDefault:
		return &Audio{Src: DefaultAudioSource}
	case sound != "":
		return &Audio{Src: sound}
	case policy == notify.SoundSilent:
		return &Audio{Silent: "true"}
	default:
		return &Audio{Src: DefaultAudioSource}
	}
}

func actionsFor(category notify.Category) *Actions {
	actions := &Actions{}
	for _, a := range category.Actions {
		button := Button{
			Content:        a.Title,
			Arguments:      a.Identifier,
			ActivationType: "foreground",
		}
		if a.Type == notify.ActionTextInput {
			actions.Inputs = append(actions.Inputs, Input{
				ID:          TextInputID,
				Type:        "text",
				Placeholder: a.InputPlaceholder,
			})
			button.Content = a.InputButtonTitle
			button.HintInputID = TextInputID
		}
		actions.Buttons = append(actions.Buttons, button)
	}
	return actions
}

// Marshal renders the document as XML
func (d Document) Marshal() (string, error) {
	out, err := xml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding toast document: %w", err)
	}
	return string(out), nil
}

// ParseDocument reads a document produced by Marshal
func ParseDocument(s string) (Document, error) {
	var d Document
	if err := xml.Unmarshal([]byte(s), &d); err != nil {
		return Document{}, fmt.Errorf("decoding toast document: %w", err)
	}
	return d, nil
}

func (d Document) text(id int) string {
	for _, t := range d.Visual.Binding.Texts {
		if t.ID == id {
			return t.Value
		}
	}
	return ""
}

// Title returns text line 1
func (d Document) Title() string { return d.text(textTitle) }

// Subtitle returns text line 2
func (d Document) Subtitle() string { return d.text(textSubtitle) }

// Body returns text line 3
func (d Document) Body() string { return d.text(textBody) }

// Silent reports whether the document asks for no sound
func (d Document) Silent() bool {
	return d.Audio != nil && d.Audio.Silent == "true"
}

// SoundSource returns the audio source, empty when silent or unset
func (d Document) SoundSource() string {
	if d.Audio == nil {
		return ""
	}
	return d.Audio.Src
}

// ButtonList returns the action buttons in display order
func (d Document) ButtonList() []Button {
	if d.Actions == nil {
		return nil
	}
	return d.Actions.Buttons
}

// InputPlaceholder returns the placeholder of the text box a button refers to
func (d Document) InputPlaceholder(inputID string) string {
	if d.Actions == nil {
		return ""
	}
	for _, in := range d.Actions.Inputs {
		if in.ID == inputID {
			return in.Placeholder
		}
	}
	return ""
}
