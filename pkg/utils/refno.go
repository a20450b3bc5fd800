package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReferenceNumber generates a unique reference number such as
// CR-3F9A21BC
func GenerateReferenceNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
