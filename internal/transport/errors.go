package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrUnauthenticated is returned when a call needs a user id and none was given.
var ErrUnauthenticated = errors.New("user not authenticated")

// RemoteError is a non-success response from the relay service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("relay: %s (status %d)", e.Message, e.Status)
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// remoteError builds a RemoteError from a failed response. The body's "error"
// field is used verbatim when present, otherwise fallback.
func remoteError(resp *http.Response, fallback string) *RemoteError {
	msg := fallback
	var body struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
