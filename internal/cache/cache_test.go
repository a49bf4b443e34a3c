package cache

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"testforge/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleResult(key string) model.GenerationResult {
	return model.GenerationResult{
		StoryKey: key,
		Source:   model.SourceAI,
		Message:  "generated",
		Cases: []model.TestCase{
			{ID: "TC-001", Scenario: "Scenario for " + key},
		},
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := New()
	c.Put("PROJ-1", sampleResult("PROJ-1"))

	got, ok := c.Get("PROJ-1")
	if !ok {
		t.Fatal("expected hit")
	}
	got.Cases[0].Scenario = "mutated"
	got.Message = "mutated"

	again, _ := c.Get("PROJ-1")
	if again.Cases[0].Scenario != "Scenario for PROJ-1" || again.Message != "generated" {
		t.Error("cached entry was mutated through a returned copy")
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New()
	c.Put("A-1", sampleResult("A-1"))
	c.Put("A-2", sampleResult("A-2"))

	if !c.Delete("A-1") {
		t.Error("expected Delete to report an existing entry")
	}
	if c.Delete("A-1") {
		t.Error("second delete should report missing")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c := New()
	c.Put("A-1", sampleResult("A-1"))

	c.Get("A-1")
	c.Get("A-1")
	c.Get("missing")

	s := c.Stats()
	if s.Entries != 1 || s.Hits != 2 || s.Misses != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("KEY-%d", i%8)
			c.Put(key, sampleResult(key))
			c.Get(key)
			c.Keys()
			c.Stats()
			if i%4 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()
}
