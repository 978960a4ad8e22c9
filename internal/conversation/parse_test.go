package conversation

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSelection_DeduplicatesPreservingOrder(t *testing.T) {
	got, err := ParseSelection("3,1,3", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseSelection_WholeInputRejectedOnOutOfRange(t *testing.T) {
	if _, err := ParseSelection("0,1", 3); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Fatalf("got %v, want ErrSelectionOutOfRange", err)
	}
	if _, err := ParseSelection("1,4", 3); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Fatalf("got %v, want ErrSelectionOutOfRange", err)
	}
}

func TestParseSelection_Empty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		if _, err := ParseSelection(in, 3); !errors.Is(err, ErrSelectionEmpty) {
			t.Fatalf("input %q: got %v, want ErrSelectionEmpty", in, err)
		}
	}
}

func TestParseSelection_BadFormat(t *testing.T) {
	for _, in := range []string{"1;2", "a,b", "1,,2", "1,", ",1", "1.5"} {
		if _, err := ParseSelection(in, 9); !errors.Is(err, ErrSelectionBadFormat) {
			t.Fatalf("input %q: got %v, want ErrSelectionBadFormat", in, err)
		}
	}
}

func TestParseSelection_IgnoresSpaces(t *testing.T) {
	got, err := ParseSelection(" 1, 3 ,2 ", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 3, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveRegion(t *testing.T) {
	options := []string{"ВСЕ Регионы", "Уфа", "Стерлитамак", "Нефтекамск", "Екатеринбург"}

	if got, ok := ResolveRegion("2", options); !ok || got != "Уфа" {
		t.Fatalf("index lookup: got %q/%v", got, ok)
	}
	if got, ok := ResolveRegion("уфа", options); !ok || got != "Уфа" {
		t.Fatalf("case-insensitive name: got %q/%v", got, ok)
	}
	if _, ok := ResolveRegion("6", options); ok {
		t.Fatal("index out of range accepted")
	}
	if _, ok := ResolveRegion("Москва", options); ok {
		t.Fatal("unknown name accepted")
	}
	if _, ok := ResolveRegion("  ", options); ok {
		t.Fatal("blank input accepted")
	}
}
