package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"taskman/internal/domain/entity"
)

// Kind classifies a failed request
type Kind int

const (
	KindServer Kind = iota
	KindNotFound
	KindValidation
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "server"
	}
}

// Error is returned by every Client method that fails
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindTransport:
		return fmt.Sprintf("request failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
}

// Transport reports whether the request never got a response
func (e *Error) Transport() bool {
	return e.Kind == KindTransport
}

// Unwrap exposes the domain error so that callers can use errors.Is and
// errors.As against entity.ErrTaskNotFound and *entity.ValidationError.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindNotFound:
		return entity.ErrTaskNotFound
	case KindValidation:
		return entity.NewValidationError(e.Field, e.Message)
	default:
		return e.Err
	}
}

// detailBody accepts both {"detail": "text"} and the 422 list form
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status, Kind: KindServer}
	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	}

	var parsed detailBody
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return e
	}

	var text string
	if err := json.Unmarshal(parsed.Detail, &text); err == nil {
		e.Message = text
		return e
	}

	var items []validationItem
	if err := json.Unmarshal(parsed.Detail, &items); err == nil && len(items) > 0 {
		e.Message = items[0].Msg
		if n := len(items[0].Loc); n > 0 {
			if field, ok := items[0].Loc[n-1].(string); ok {
				e.Field = field
			}
		}
	}
	return e
}
