// Package roomcode generates human readable room codes of the form WORD-####.
package roomcode

import (
	"fmt"
	"regexp"

	"github.com/sfines/sdd-process-example/internal/dependencies/random"
)

// Words is the vocabulary room codes are drawn from
var Words = []string{
	"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT", "GOLF", "HOTEL",
	"INDIA", "JULIET", "KILO", "LIMA", "MIKE", "NOVEMBER", "OSCAR", "PAPA",
	"QUEBEC", "ROMEO", "SIERRA", "TANGO", "UNIFORM", "VICTOR", "WHISKEY", "XRAY",
	"YANKEE", "ZULU", "APPLE", "BANANA", "CHERRY", "DRAGON", "EAGLE", "FALCON",
	"GIRAFFE", "HORSE", "IGUANA", "JAGUAR", "KOALA", "LION", "MONKEY", "NEWT",
	"OTTER", "PANDA", "QUAIL", "RABBIT", "SNAKE", "TIGER", "UNICORN", "VIPER",
	"WALRUS", "XERUS", "YAK", "ZEBRA", "AZURE", "BRONZE", "COPPER", "DIAMOND",
	"EMERALD", "FROST", "GOLDEN", "HOLLOW", "IVORY", "JADE", "KNIGHT", "LUNAR",
	"MYSTIC", "NOBLE", "ONYX", "PEARL", "QUARTZ", "RUBY", "SILVER", "TOPAZ",
	"ULTRA", "VIOLET", "WINTER", "XENON", "YELLOW", "ZENITH", "AMBER", "BLAZE",
	"CRYSTAL", "DAWN", "EMBER", "FLAME", "GLACIER", "HAVEN", "IRON", "JEWEL",
	"KARMA", "LIGHT", "MAGIC", "NIGHT", "OCEAN", "PRISM", "QUEST", "RAVEN",
	"SHADOW", "THUNDER", "UNITY", "VAPOR", "WAVE", "WIZARD", "ZODIAC", "ARROW",
	"BLADE",
}

var pattern = regexp.MustCompile(`^[A-Z]+-\d{4}$`)

// Generate returns a candidate code. It does not check availability.
func Generate(rnd random.Random) string {
	word := Words[rnd.Intn(len(Words))]
	return fmt.Sprintf("%s-%04d", word, rnd.Intn(10000))
}

// Valid reports whether code has the WORD-#### shape
func Valid(code string) bool {
	return pattern.MatchString(code)
}
