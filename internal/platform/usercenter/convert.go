package usercenter

import (
	"maps"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func soundFor(name string, policy notify.SoundPolicy) Sound {
	switch {
	case name == notify.SoundDefault:
		return Sound{Kind: SoundPlatform}
	case name != "":
		return Sound{Kind: SoundNamed, Name: name}
	case policy == notify.SoundSilent:
		return Sound{Kind: SoundNone}
	default:
		return Sound{Kind: SoundPlatform}
	}
}

func newRequest(id string, content notify.Content, policy notify.SoundPolicy) Request {
	return Request{
		Identifier: id,
		Content: RequestContent{
			Title:              content.Title,
			Subtitle:           content.Subtitle,
			Body:               content.Body,
			Sound:              soundFor(content.Sound, policy),
			ThreadIdentifier:   content.ThreadID,
			CategoryIdentifier: content.CategoryID,
			UserInfo:           content.Metadata(),
		},
	}
}

func nativeCategories(categories []notify.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		nc := Category{Identifier: c.Identifier, Actions: make([]Action, 0, len(c.Actions))}
		for _, a := range c.Actions {
			na := Action{Identifier: a.Identifier, Title: a.Title}
			if a.Type == notify.ActionTextInput {
				na.TextInput = true
				na.ButtonTitle = a.InputButtonTitle
				na.Placeholder = a.InputPlaceholder
			}
			nc.Actions = append(nc.Actions, na)
		}
		out = append(out, nc)
	}
	return out
}

func actionFor(identifier string) notify.Action {
	switch identifier {
	case DefaultActionIdentifier:
		return notify.DefaultAction()
	case DismissActionIdentifier:
		return notify.DismissAction()
	default:
		return notify.OtherAction(identifier)
	}
}

func metadataOf(req Request) map[string]string {
	if req.Content.UserInfo == nil {
		return map[string]string{}
	}
	return maps.Clone(req.Content.UserInfo)
}

func responseFor(native NotificationResponse) notify.Response {
	return notify.Response{
		NotificationID: native.Request.Identifier,
		Action:         actionFor(native.ActionIdentifier),
		UserInput:      native.UserText,
		UserMetadata:   metadataOf(native.Request),
	}
}
