package strategy

// Strategy selects the index of the server that should receive the next
// player request. Implementations must be safe for concurrent use.
type Strategy interface {
	Next() int
}
