// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy defines the interface for cache eviction strategies over game records.
type Strategy interface {
	Get(id string) ([]byte, bool)
	Add(id string, value []byte) bool
	Len() int
}
