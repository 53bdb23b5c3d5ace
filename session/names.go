package session

import "math/rand/v2"

var adjectives = []string{
	"Brave", "Calm", "Clever", "Gentle", "Happy",
	"Lucky", "Merry", "Quiet", "Swift", "Witty",
}

var nouns = []string{
	"Badger", "Falcon", "Otter", "Panda",
	"Penguin", "Rabbit", "Tiger", "Walrus",
}

// anonymousName pairs a random adjective with a random animal. Collisions
// are fine; identity rests on the participant id, not the display name.
func anonymousName() string {
	return adjectives[rand.IntN(len(adjectives))] + " " + nouns[rand.IntN(len(nouns))]
}
