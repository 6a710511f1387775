package gateway

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable is matched by every failure the gateway returns.
var ErrRemoteUnavailable = errors.New("gateway: remote unavailable")

type RemoteError struct {
	Endpoint string
	Status   int
	Detail   string
	Err      error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("gateway: %s: status %d: %s", e.Endpoint, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("gateway: %s: status %d", e.Endpoint, e.Status)
	case e.Detail != "":
		return fmt.Sprintf("gateway: %s: %s", e.Endpoint, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("gateway: %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("gateway: %s: remote unavailable", e.Endpoint)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}
