package level

// DefaultRows is the 8x8 corridor map the renderer starts with.
var DefaultRows = []string{
	"########",
	"#.#....#",
	"#.#.##.#",
	"#.#.#..#",
	"#.#.#.##",
	"#.#.#..#",
	"#...#..#",
	"########",
}

// Default parses DefaultRows.
func Default() *Level {
	l, err := Parse(DefaultRows)
	if err != nil {
		panic(err)
	}
	return l
}
