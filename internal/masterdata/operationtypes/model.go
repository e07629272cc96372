package operationtypes

import "time"

// Code classifies the direction of a movement template.
type Code string

const (
	CodeIncoming      Code = "incoming"
	CodeOutgoing      Code = "outgoing"
	CodeInternal      Code = "internal"
	CodeManufacturing Code = "manufacturing"
)

// Valid reports whether the code is a known movement classification.
func (c Code) Valid() bool {
	switch c {
	case CodeIncoming, CodeOutgoing, CodeInternal, CodeManufacturing:
		return true
	}
	return false
}

// OperationType is a named template for a kind of stock movement.
type OperationType struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Code                     Code      `json:"code"`
	SequencePrefix           string    `json:"sequence_prefix"`
	Description              string    `json:"description"`
	DefaultSourceLocation    *int64    `json:"default_source_location_id"`
	DefaultDestinationLocation *int64  `json:"default_destination_location_id"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}
