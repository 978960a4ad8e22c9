package conversation

import (
	"sync"
	"testing"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	st := NewMemoryStore()

	if _, ok := st.Get("u1"); ok {
		t.Fatal("empty store returned a session")
	}

	st.Put("u1", &Session{Step: StepFirstName})
	s, ok := st.Get("u1")
	if !ok || s.Step != StepFirstName {
		t.Fatalf("got %+v/%v", s, ok)
	}

	st.Put("u1", &Session{Step: StepRegion})
	if s, _ := st.Get("u1"); s.Step != StepRegion {
		t.Fatalf("replace did not take: %v", s.Step)
	}

	st.Delete("u1")
	if _, ok := st.Get("u1"); ok {
		t.Fatal("session survived delete")
	}

	// Deleting a missing session is a no-op.
	st.Delete("nope")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	st := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			st.Put(id, &Session{Step: StepFirstName})
			st.Get(id)
			st.Delete(id)
		}(string(rune('a' + i%26)))
	}
	wg.Wait()
}
