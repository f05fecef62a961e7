package usecase

import (
	"reflect"
	"testing"
)

func TestExtractAllKeywords(t *testing.T) {
	t.Run("merges question and answer tokens", func(t *testing.T) {
		pool := ExtractAllKeywords("Tôi bị huyết áp cao", "Nên ăn cà chua. Uống nước!")
		for _, want := range []string{"toi", "huyet", "cao", "nen", "chua", "uong", "nuoc"} {
			if !contains(pool, want) {
				t.Errorf("pool %v missing %q", pool, want)
			}
		}
	})

	t.Run("has no duplicates", func(t *testing.T) {
		pool := ExtractAllKeywords("cà chua cà chua", "Chua. chua! CHUA?")
		if !reflect.DeepEqual(pool, []string{"chua"}) {
			t.Errorf("pool = %v, want [chua]", pool)
		}
	})

	t.Run("keeps first-seen order", func(t *testing.T) {
		pool := ExtractAllKeywords("apple banana", "cherry apple")
		want := []string{"apple", "banana", "cherry"}
		if !reflect.DeepEqual(pool, want) {
			t.Errorf("pool = %v, want %v", pool, want)
		}
	})

	t.Run("empty turn", func(t *testing.T) {
		if pool := ExtractAllKeywords("", ""); len(pool) != 0 {
			t.Errorf("pool = %v, want empty", pool)
		}
	})
}

func TestUniqueStrings(t *testing.T) {
	got := uniqueStrings([]string{"a", "", "b"}, nil, []string{"b", "c", "a"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uniqueStrings() = %v, want %v", got, want)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
