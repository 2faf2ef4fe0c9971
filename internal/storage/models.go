package storage

type Item struct {
	ID         int64
	Name       string
	Category   string
	Icon       string
	Stack      int64
	Roll       int64
	Loose      int64
	ValueCents int64
	Position   int64
}
