package answers

import (
	"fmt"
	"sync"
	"testing"
)

func TestCacheStoreAndLookup(t *testing.T) {
	c := NewCache()
	if _, ok := c.Lookup("What is 2+2?"); ok {
		t.Fatal("lookup on empty cache reported a hit")
	}
	c.Store("What is 2+2?", "4")
	answer, ok := c.Lookup("What is 2+2?")
	if !ok || answer != "4" {
		t.Fatalf("Lookup = %q, %v; want \"4\", true", answer, ok)
	}
}

func TestCacheExactMatchOnly(t *testing.T) {
	c := NewCache()
	c.Store("What is 2+2?", "4")
	if _, ok := c.Lookup("what is 2+2?"); ok {
		t.Error("case variant matched; cache keys must be exact")
	}
	if _, ok := c.Lookup("What is 2+2"); ok {
		t.Error("punctuation variant matched; cache keys must be exact")
	}
}

func TestCacheFirstAnswerWins(t *testing.T) {
	c := NewCache()
	c.Store("q", "first")
	c.Store("q", "second")
	answer, _ := c.Lookup("q")
	if answer != "first" {
		t.Errorf("Lookup = %q, want first stored answer", answer)
	}
}

func TestCacheIgnoresEmptyQuestion(t *testing.T) {
	c := NewCache()
	c.Store("", "answer")
	if c.Len() != 0 {
		t.Errorf("Len = %d after storing empty question, want 0", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("question-%d", n%4)
			c.Store(key, "answer")
			c.Lookup(key)
		}(i)
	}
	wg.Wait()
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
}
