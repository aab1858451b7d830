package types

// Event is the wire form of a protocol event: a dotted type name plus string
// attributes. Amounts are carried as decimal strings so consumers never lose
// precision to JSON numbers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
