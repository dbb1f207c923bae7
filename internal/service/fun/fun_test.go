package fun

import "testing"

func TestJokeAndQuoteDrawFromPools(t *testing.T) {
	svc := NewService()

	inJokes := map[string]bool{}
	for _, j := range jokes {
		inJokes[j] = true
	}
	inQuotes := map[string]bool{}
	for _, q := range quotes {
		inQuotes[q] = true
	}

	for i := 0; i < 50; i++ {
		if !inJokes[svc.Joke()] {
			t.Fatal("joke outside the pool")
		}
		if !inQuotes[svc.Quote()] {
			t.Fatal("quote outside the pool")
		}
	}
}
