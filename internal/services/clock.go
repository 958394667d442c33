package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in UTC at millisecond precision, the
// resolution persisted by every backend.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewOrderID joins the creation instant with a random suffix so that ids
// minted in the same millisecond do not collide.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), strings.ToUpper(suffix))
}

func NewItemID() string {
	return uuid.NewString()
}
