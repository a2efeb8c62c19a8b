package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewFolio genera el folio de una venta: V-AAAAMMDD-XXXXXX.
func NewFolio(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "V-" + at.Format("20060102") + "-" + suffix
}
