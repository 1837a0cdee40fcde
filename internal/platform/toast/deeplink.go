package toast

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

const (
	defaultToken = "__default__"
	dismissToken = "__dismiss__"
)

// EncodeDeeplink builds the callback URI
//
//	<scheme>://<notification-id>/<action-token>?<base64(json(metadata))>
//
// The id and token are path-escaped; ids and action identifiers made of
// unreserved characters appear verbatim.
func EncodeDeeplink(scheme, notificationID string, action notify.Action, metadata map[string]string) (string, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return "", notify.NewError(notify.SerializationError, "encode callback uri", err)
	}
	return fmt.Sprintf("%s://%s/%s?%s",
		scheme,
		url.PathEscape(notificationID),
		url.PathEscape(actionToken(action)),
		base64.StdEncoding.EncodeToString(payload),
	), nil
}

// DecodeDeeplink parses a callback URI produced by EncodeDeeplink. A missing
// query yields empty metadata.
func DecodeDeeplink(uri string) (notify.Response, error) {
	fail := func(format string, args ...any) (notify.Response, error) {
		err := fmt.Errorf("%w: %s", notify.ErrInvalidCallbackURI, fmt.Sprintf(format, args...))
		return notify.Response{}, notify.NewError(notify.SerializationError, "decode callback uri", err)
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return fail("missing scheme in %q", uri)
	}
	rawID, pathAndQuery, ok := strings.Cut(rest, "/")
	if !ok {
		return fail("missing action in %q", uri)
	}
	rawToken, query, _ := strings.Cut(pathAndQuery, "?")

	id, err := url.PathUnescape(rawID)
	if err != nil {
		return fail("notification id: %v", err)
	}
	token, err := url.PathUnescape(rawToken)
	if err != nil {
		return fail("action: %v", err)
	}

	metadata := map[string]string{}
	if query != "" {
		payload, err := base64.StdEncoding.DecodeString(query)
		if err != nil {
			return fail("metadata encoding: %v", err)
		}
		if err := json.Unmarshal(payload, &metadata); err != nil {
			return fail("metadata json: %v", err)
		}
	}

	return notify.Response{
		NotificationID: id,
		Action:         actionFromToken(token),
		UserMetadata:   metadata,
	}, nil
}

func actionToken(a notify.Action) string {
	switch a.Kind {
	case notify.KindDefault:
		return defaultToken
	case notify.KindDismiss:
		return dismissToken
	default:
		return a.Identifier
	}
}

func actionFromToken(token string) notify.Action {
	switch token {
	case defaultToken:
		return notify.DefaultAction()
	case dismissToken:
		return notify.DismissAction()
	default:
		return notify.OtherAction(token)
	}
}
