package feed

import (
	"math/rand/v2"
	"slices"
)

const (
	minSuggestions = 15
	suggestionSpan = 10
)

var commentSuggestions = []string{
	"Great post, thanks for sharing!",
	"I had the same problem last week.",
	"Could you share a code sample?",
	"This is exactly what I was looking for.",
	"Interesting take, I never thought about it that way.",
	"Which version are you using?",
	"Thanks, this saved me a lot of time.",
	"Have you tried restarting the service?",
	"I disagree, but I see your point.",
	"Can you explain the second part in more detail?",
	"Nice write-up!",
	"Bookmarked for later.",
	"Does this also work on Windows?",
	"Looking forward to the follow-up.",
	"Well explained, even for a beginner.",
	"What would you do differently next time?",
	"Same here, following this thread.",
	"Solid advice.",
	"Is there a link to the docs?",
	"This deserves more upvotes.",
	"Thanks for the detailed answer!",
	"I learned something new today.",
	"How does this compare to the alternatives?",
	"Good question, I'd like to know too.",
	"Any benchmarks to back this up?",
	"Clear and concise, thank you.",
	"I ran into an edge case with this approach.",
	"Could this be added to the FAQ?",
	"Welcome to the forum!",
	"Agreed, well said.",
}

// Suggestions returns a random selection of quick-reply comments: between 15 and 24 of them, in random order.
func Suggestions(r *rand.Rand) []string {
	shuffled := slices.Clone(commentSuggestions)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := min(minSuggestions+r.IntN(suggestionSpan), len(shuffled))
	return shuffled[:n]
}
