package fun

import (
	"math/rand"
	"sync"
	"time"
)

// Small built-in pools keep these endpoints dependency-free and safe
// for voice playback.
var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"Parallel lines have so much in common. It's a shame they'll never meet.",
	"I threw a boomerang a few years ago. I now live in constant fear.",
}

var quotes = []string{
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Believe you can and you're halfway there. - Theodore Roosevelt",
	"It does not matter how slowly you go as long as you do not stop. - Confucius",
	"Act as if what you do makes a difference. It does. - William James",
	"Success is not final, failure is not fatal: it is the courage to continue that counts. - Winston Churchill",
}

// Service hands out conversational filler content.
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewService() *Service {
	return &Service{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *Service) Joke() string {
	return jokes[s.intn(len(jokes))]
}

func (s *Service) Quote() string {
	return quotes[s.intn(len(quotes))]
}

func (s *Service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
