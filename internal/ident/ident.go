// Package ident generates the run identifiers attached to pipeline results.
package ident

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns an identifier of the form <prefix>_<unix-ts><6-char suffix>.
// The suffix is random; collisions are treated as negligible and are not
// checked against the store.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("%s_%d%s", prefix, time.Now().Unix(), suffix)
}
