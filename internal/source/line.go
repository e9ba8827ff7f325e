package source

// Line pairs a 1-based line number with its literal text content
type Line struct {
	Number  int
	Content string
}
