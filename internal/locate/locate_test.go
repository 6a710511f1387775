package locate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStaticLocate(t *testing.T) {
	pos := &Position{Latitude: 12.97, Longitude: 77.59}
	cases := []struct {
		name    string
		loc     Static
		wantErr error
	}{
		{"denied", Static{Allowed: false, Position: pos}, ErrPermissionDenied},
		{"missing", Static{Allowed: true}, ErrLocationUnavailable},
		{"out of range", Static{Allowed: true, Position: &Position{Latitude: 120}}, ErrLocationUnavailable},
		{"ok", Static{Allowed: true, Position: pos}, nil},
	}
	for _, tc := range cases {
		got, err := tc.loc.Locate(context.Background())
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
			continue
		}
		if err != nil || got != *pos {
			t.Fatalf("%s: unexpected result %+v %v", tc.name, got, err)
		}
	}
}

func TestUserMessageDistinguishesCauses(t *testing.T) {
	denied := UserMessage(ErrPermissionDenied)
	unavailable := UserMessage(ErrLocationUnavailable)
	if denied == unavailable || !strings.Contains(denied, "denied") {
		t.Fatalf("expected distinct messages, got %q and %q", denied, unavailable)
	}
}
