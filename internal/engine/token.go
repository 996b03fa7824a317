package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Intake tokens follow the grammar TYPE|COLOR|QUANTITY|UNIT, e.g.
// ROSES|RED|200|STEMS. Every other scan mode treats the decoded text as an
// opaque identifier with no grammar constraint.
const intakeFieldCount = 4

// IntakeRecord is a decoded intake token.
type IntakeRecord struct {
	FlowerType string
	Color      string
	Quantity   int
	Unit       string
}

// ParseIntakeToken validates and decodes an intake token. The flower type
// and color are normalized to title case and the unit to lower case for
// display, matching how labels are printed.
func ParseIntakeToken(token string) (*IntakeRecord, error) {
	parts := strings.Split(token, "|")
	if len(parts) != intakeFieldCount {
		return nil, &MalformedInputError{
			Reason: fmt.Sprintf("expected TYPE|COLOR|QUANTITY|UNIT, got %d field(s)", len(parts)),
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || qty < 1 {
		return nil, &MalformedInputError{
			Reason: fmt.Sprintf("quantity %q is not a positive integer", parts[2]),
		}
	}

	return &IntakeRecord{
		FlowerType: titleCase(parts[0]),
		Color:      titleCase(parts[1]),
		Quantity:   qty,
		Unit:       strings.ToLower(strings.TrimSpace(parts[3])),
	}, nil
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
